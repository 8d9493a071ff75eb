// Package cache provides the source-response cache.  Retrieval clients store
// raw HTTP payloads keyed by URL so repeated builds do not hammer the public
// databases; a cache failure is never fatal to a build.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a payload.  A zero ttl uses the implementation's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Ping verifies connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connection pool.
	Close() error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nopCache) Delete(context.Context, ...string) error { return nil }

func (nopCache) Ping(context.Context) error { return nil }

func (nopCache) Close() error { return nil }

// NewNop returns a Cache that stores nothing and always misses.  Used when
// caching is disabled.
func NewNop() Cache { return nopCache{} }
