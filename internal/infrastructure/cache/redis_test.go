package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server only when TEST_REDIS_ADDR is set
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c := NewRedisCache(addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()
	key := "test:catalog:" + uuid.NewString()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	var missing []string
	found, err := c.Get(ctx, key, &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, key, []string{"WARPLP55", "WARPCD55"}, time.Minute))

	var got []string
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"WARPLP55", "WARPCD55"}, got)

	require.NoError(t, c.Delete(ctx, key))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Delete(ctx))
}
