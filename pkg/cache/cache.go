// Package cache stores rendered figures between runs.
//
// A rendered figure is a pure function of the dataset content and the
// options it was rendered with, so artifacts are cached under a key derived
// from both (see [Keyer]). Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, for several machines rendering
//     the same figures
//   - [NullCache]: stores nothing, used with --no-cache
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered figures stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
