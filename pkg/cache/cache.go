// Package cache stores rendered execution-graph artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default).
//   - [RedisCache]: a shared Redis instance (HTTP service, CI runners).
//   - [NullCache]: stores nothing; used when caching is disabled.
//
// All backends honour a per-entry TTL and are safe for concurrent use.
//
// # Keys
//
// Keys are derived from a content hash of the diagram snapshot, so any
// change to a process rectangle or ID yields a new key and stale artifacts
// are never served. A [Keyer] builds the keys; a [ScopedKeyer] prefixes them
// to share one backend between tenants or environments.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil); errors are
	// reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
