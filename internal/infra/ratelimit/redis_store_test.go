package ratelimit

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStore_FixedWindow(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, 2, time.Minute, newDiscardLogger())

	for range 2 {
		allowed, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.True(t, server.TTL(redisKeyPrefix+"10.0.0.1") > 0)

	server.FastForward(time.Minute + time.Second)

	allowed, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisStore_RepairsMissingExpiry(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key := redisKeyPrefix + "10.0.0.2"
	// A counter left behind without a TTL, e.g. by an interrupted write.
	require.NoError(t, server.Set(key, "5"))

	store := NewRedisStore(client, 2, time.Minute, newDiscardLogger())

	allowed, err := store.Allow("10.0.0.2")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, server.TTL(key) > 0)

	server.FastForward(time.Minute + time.Second)

	allowed, err = store.Allow("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisStore_FailsOpen(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, 1, time.Minute, newDiscardLogger())
	server.Close()

	allowed, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Addr: "redis://:pw@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.RedisConfig{Addr: "localhost:6379"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}
