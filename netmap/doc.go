// Package netmap resolves shared resource paths to locally usable handles.
//
// A shared resource is identified by a UNC-style share path such as
// \\server\share\dir (forward slashes are accepted). Resolution consults
// three tiers in order: a static configuration table, live mappings
// discovered from the environment, and finally a Connector that creates a
// new temporary mapping.
//
// Acquisitions are scoped: a mapping created by Acquire is torn down by its
// Release, while mappings resolved through the static table or the live set
// are borrowed and never torn down here, so mappings held by unrelated
// users are never broken.
package netmap
