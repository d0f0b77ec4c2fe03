package cache_test

import (
	"context"
	"poolbook/infras/otel/mocks"
	"poolbook/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Increment(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	c := cache.NewRedisCache(client, mocks.NewOtel())
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := c.Increment(ctx, "poolbook:ratelimit:ip", 60)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, 60*time.Second, server.TTL("poolbook:ratelimit:ip"))

	server.FastForward(61 * time.Second)

	got, err := c.Increment(ctx, "poolbook:ratelimit:ip", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	require.NoError(t, c.Delete(ctx, "poolbook:ratelimit:ip"))
	assert.False(t, server.Exists("poolbook:ratelimit:ip"))
}

func TestRedisCache_IncrementServerDown(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	defer client.Close()

	server.Close()

	_, err := cache.NewRedisCache(client, mocks.NewOtel()).Increment(context.Background(), "k", 60)
	assert.Error(t, err)
}
