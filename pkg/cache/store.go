package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the pluggable key-value store behind the result cache. Expiry is
// enforced by the store itself; the gateway never re-checks TTLs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, ttl time.Duration, value []byte) error
}

// Key derives the per-tenant cache key for an entity type. One entry per
// tenant per entity type; filtered requests never touch the cache so the
// filter shape is not part of the key.
func Key(entityType, tenantID string) string {
	return entityType + "_" + tenantID
}
