package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries to be 3, got %d", config.MaxRetries)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()
	config.MaxRetries = -1
	config.DialTimeout = 200 * time.Millisecond
	config.ReadTimeout = 200 * time.Millisecond
	config.WriteTimeout = 200 * time.Millisecond

	store := NewRedisStore(config)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SetExistsDelete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "1", time.Minute))

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, store.Delete(ctx, "k"))
	exists, err = store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisStore_KeysExpire(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "1", time.Second))
	mr.FastForward(2 * time.Second)

	exists, err := store.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisStore_Health(t *testing.T) {
	store, mr := setupTestRedis(t)

	assert.NoError(t, store.Health(context.Background()))
	assert.Contains(t, store.Stats(), "pool_total")

	mr.Close()
	assert.Error(t, store.Health(context.Background()))
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	store.now = clock.Now
	ctx := context.Background()

	store.Set(ctx, "a", time.Minute)
	store.Set(ctx, "b", time.Hour)
	assert.True(t, store.Exists(ctx, "a"))

	clock.Advance(time.Minute)
	assert.False(t, store.Exists(ctx, "a"))
	assert.True(t, store.Exists(ctx, "b"))

	clock.Advance(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())

	store.Set(ctx, "c", time.Hour)
	store.Delete(ctx, "c")
	assert.False(t, store.Exists(ctx, "c"))
}
