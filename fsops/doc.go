// Package fsops implements the filesystem collaborators used by staged
// output publishing: bulk tree copies classified by a three-valued outcome,
// recursive removal with a single alternate-handle fallback, and small
// path helpers.
package fsops
