package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, time.Duration, []byte) error {
	return errors.New("connection refused")
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestKey(t *testing.T) {
	assert.Equal(t, "packages_t1", Key("packages", "t1"))
	assert.Equal(t, "images_t2", Key("images", "t2"))
}

func TestResultCacheRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	rc := NewResultCache(store, time.Minute, testLogger())
	ctx := context.Background()

	var out []string
	assert.False(t, rc.GetList(ctx, "packages_t1", &out), "cold cache must miss")

	rc.PutList(ctx, "packages_t1", []string{"a", "b"})
	require.True(t, rc.GetList(ctx, "packages_t1", &out))
	assert.Equal(t, []string{"a", "b"}, out)

	// Entries are tenant-scoped; another tenant's key is still cold.
	assert.False(t, rc.GetList(ctx, "packages_t2", &out))
}

func TestResultCacheStoreErrorsAreMisses(t *testing.T) {
	rc := NewResultCache(failingStore{}, time.Minute, testLogger())
	ctx := context.Background()

	var out []string
	assert.False(t, rc.GetList(ctx, "packages_t1", &out))

	// Write failures must be swallowed, never panic or propagate.
	rc.PutList(ctx, "packages_t1", []string{"a"})
}

func TestResultCacheUndecodableEntryIsMiss(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	require.NoError(t, store.Set(context.Background(), "packages_t1", time.Minute, []byte("{nope")))

	rc := NewResultCache(store, time.Minute, testLogger())
	var out []string
	assert.False(t, rc.GetList(context.Background(), "packages_t1", &out))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", 10*time.Millisecond, []byte("v")))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	time.Sleep(30 * time.Millisecond)
	_, err = store.Get(ctx, "k")
	assert.Equal(t, ErrMiss, err)
}
