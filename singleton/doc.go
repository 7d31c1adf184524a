// Package singleton provides a thread-safe lazy single-instance factory.
//
// A Factory caches at most one live instance per type identifier. Instances
// are constructed on first request using double-checked locking, so
// concurrent first callers trigger exactly one construction. An instance can
// be explicitly replaced with WithReinit, which atomically swaps the entry
// and closes the previous instance if it implements io.Closer.
package singleton
