// Package cache provides content-addressed caching for pipeline stages.
//
// # Overview
//
// Each pipeline stage is keyed by a hash of its input plus the options that
// affect its output:
//
//   - Grid: hash of the image bytes + cell size → serialized grid
//   - Graph: hash of the serialized grid → graph JSON
//   - Artifact: hash of the graph JSON + render options → rendered bytes
//
// # Backends
//
//   - [FileCache]: JSON entries on local disk, used by the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [MemoryCache]: bounded in-process cache for a single server
//   - [NullCache]: disables caching
//
// # Keys
//
// [Keyer] builds keys; [NewScopedKeyer] prefixes them so several consumers
// can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per stage.
const (
	TTLGrid     = 7 * 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)
