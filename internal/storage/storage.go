// Package storage provides the durable key-value adapter that holds the
// serialized preference blob. Unavailable storage degrades to in-memory-only
// operation: reads report nothing, writes are skipped, nothing is fatal.
package storage

import "context"

// Adapter reads and writes a single serialized blob under a key.
type Adapter interface {
	// Available probes whether the store can currently serve reads/writes.
	Available(ctx context.Context) bool
	// Get returns the blob. A missing blob is sentinel.ErrNotFound; a store
	// that cannot answer wraps sentinel.ErrUnavailable.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites the blob.
	Set(ctx context.Context, key, value string) error
}
