package cache

import (
	"context"
	"time"
)

// Cache is the contract for the lookup cache layer.
// Implementations: Redis (internal/infrastructure/cache).
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found is false on a cache miss, and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
