package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisSeenCache_Defaults(t *testing.T) {
	c := newRedisSeenCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0, "")
	defer c.Close()
	assert.Equal(t, defaultTTL, c.ttl)
	assert.Equal(t, defaultPrefix, c.prefix)
}

func TestNewRedisSeenCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := NewRedisSeenCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

// Requiere Redis: EDGESCAN_TEST_REDIS_ADDR=localhost:6379
func TestRedisSeenCache_MarkSeen(t *testing.T) {
	addr := os.Getenv("EDGESCAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EDGESCAN_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	prefix := "edgescan:test:" + time.Now().Format("150405.000000") + ":"
	c, err := NewRedisSeenCache(ctx, RedisConfig{Addr: addr, DB: 1, TTL: time.Minute, Prefix: prefix})
	require.NoError(t, err)
	defer c.Close()

	first, err := c.MarkSeen(ctx, "NBA-LAK:6")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := c.MarkSeen(ctx, "NBA-LAK:6")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := c.MarkSeen(ctx, "NBA-LAK:7")
	require.NoError(t, err)
	assert.True(t, other)

	require.NoError(t, c.Forget(ctx, "NBA-LAK:6"))
	again, err = c.MarkSeen(ctx, "NBA-LAK:6")
	require.NoError(t, err)
	assert.True(t, again)
}
