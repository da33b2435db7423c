// Package cache stores rendered workflow previews.
//
// Rendering a preview runs Graphviz, which is slow compared to every
// layout operation, so the CLI and the HTTP API keep finished artifacts
// keyed by a hash of the workflow and the render options. Three backends
// implement [Cache]:
//
//   - [FileCache]: files under the XDG cache directory, for the CLI
//   - [RedisCache]: a shared redis instance, for the HTTP API
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long previews stay cached.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
