// Package cache provides result caching for layout runs.
//
// Layout results are pure functions of the graph and the algorithm options,
// so they cache well: the pipeline hashes the graph, derives a key from the
// hash and the options, and reuses stored positions on later runs.
//
// The package defines:
//   - Cache: the storage interface (file-based and null implementations)
//   - Keyer: key derivation from graph hashes and layout options
//   - Hash: content hashing for graphs and cached payloads
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.NewDefaultKeyer().LayoutKey(graphHash, cache.LayoutKeyOpts{Algorithm: algo})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // reuse data
//	}
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long cached layout results stay fresh. Layouts are
// recomputable from the graph at any time, so the TTL mainly bounds disk
// growth.
const TTLLayout = 7 * 24 * time.Hour

// Cache is the interface for cache storage backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
