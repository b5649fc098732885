// Package cache stores serialized tick service responses.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as JSON files, for the CLI and single-node use
//   - [RedisCache] shares entries between service replicas
//
// Keys come from a [Keyer], which hashes the normalized request so that
// equivalent requests share an entry:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "timestack:")
//	key := k.TicksKey(cache.TicksKeyOpts{Min: min, Max: max, Width: 600})
//	if data, ok, err := c.Get(ctx, key); err == nil && ok {
//	    // serve data
//	}
//
// Wrap a backend with [WithHooks] to report hits, misses and writes to the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases the backend's resources.
	Close() error
}
