// Package cache stores rendered artifacts keyed by a hash of their source.
//
// The server and CLI use it for Graphviz output: laying out a tree diagram
// is far slower than generating its DOT source, and the same source always
// renders to the same SVG.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.DiagramKey(src, "svg")
//	if data, ok, _ := c.Get(ctx, key); ok {
//		return data
//	}
//
// [FileCache.Prune] drops expired entries and [FileCache.Clear] drops all
// of them. [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// DiagramTTL is how long rendered diagrams are kept.
const DiagramTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
