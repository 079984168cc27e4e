// Package cache stores computed run traces so that repeated runs over an
// unchanged graph skip the engine entirely.
//
// Keys are derived from a hash of the canonical graph encoding (see
// [graph.MarshalGraph]) by a [Keyer], so renaming a file or reordering its
// JSON fields does not invalidate the entry while any change to vertices,
// edges or weights does.
//
// Two implementations are provided:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired and unreadable entries are misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
