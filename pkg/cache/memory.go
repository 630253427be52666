package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore is an in-process Store used in development and tests. Expiry
// is handled by ttlcache's per-item TTL.
type MemoryStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryStore creates an in-memory Store and starts its expiry loop.
func NewMemoryStore() *MemoryStore {
	c := ttlcache.New(ttlcache.WithDisableTouchOnHit[string, []byte]())
	go c.Start()
	return &MemoryStore{cache: c}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, ErrMiss
	}
	return item.Value(), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, ttl time.Duration, value []byte) error {
	s.cache.Set(key, value, ttl)
	return nil
}

// Stop halts the expiry loop.
func (s *MemoryStore) Stop() {
	s.cache.Stop()
}
