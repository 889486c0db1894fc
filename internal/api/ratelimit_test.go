package api

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCounter(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCounter(client), mr
}

func TestRedisCounter_WindowResetsUnderSteadyTraffic(t *testing.T) {
	counter, mr := newRedisCounter(t)
	ctx := context.Background()
	key := "ratelimit:analyze:user:1"

	var counts []int64
	for i := 0; i < 6; i++ {
		n, err := counter.Hit(ctx, key, time.Second)
		require.NoError(t, err)
		counts = append(counts, n)
		mr.FastForward(600 * time.Millisecond)
	}
	assert.Equal(t, []int64{1, 2, 1, 2, 1, 2}, counts)
}

func TestRedisCounter_LaterHitsKeepTTL(t *testing.T) {
	counter, mr := newRedisCounter(t)
	ctx := context.Background()
	key := "ratelimit:analyze:user:1"

	_, err := counter.Hit(ctx, key, time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, mr.TTL(key))

	mr.FastForward(600 * time.Millisecond)
	n, err := counter.Hit(ctx, key, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 400*time.Millisecond, mr.TTL(key))
}

func TestRedisCounter_KeysAreIndependent(t *testing.T) {
	counter, _ := newRedisCounter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := counter.Hit(ctx, "ratelimit:analyze:user:1", time.Minute)
		require.NoError(t, err)
	}
	n, err := counter.Hit(ctx, "ratelimit:analyze:user:2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
