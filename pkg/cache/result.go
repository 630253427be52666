package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// ResultCache is the read-through cache for candidate lists. Every store
// error is treated as a miss: the cache must never fail a request.
type ResultCache struct {
	store Store
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewResultCache wraps a Store with the configured TTL.
func NewResultCache(store Store, ttl time.Duration, log logrus.FieldLogger) *ResultCache {
	return &ResultCache{
		store: store,
		ttl:   ttl,
		log:   log.WithField("component", "result-cache"),
	}
}

// GetList loads a cached candidate list into out. It reports true only on a
// usable hit; store errors and undecodable entries count as misses.
func (c *ResultCache) GetList(ctx context.Context, key string, out any) bool {
	value, err := c.store.Get(ctx, key)
	if err == ErrMiss {
		return false
	}
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache read failed, treating as miss")
		return false
	}
	if err := json.Unmarshal(value, out); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry undecodable, treating as miss")
		return false
	}
	return true
}

// PutList stores a candidate list under key with the configured TTL.
// Best-effort: write failures are logged and swallowed.
func (c *ResultCache) PutList(ctx context.Context, key string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache value not serializable")
		return
	}
	if err := c.store.Set(ctx, key, c.ttl, encoded); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}
