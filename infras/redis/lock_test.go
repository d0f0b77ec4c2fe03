package redis_test

import (
	"context"
	"poolbook/infras/otel/mocks"
	"poolbook/infras/redis"
	"poolbook/shared/lock"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoolLock(t *testing.T, ttl time.Duration) (*redis.PoolLock, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return redis.NewPoolLockWithOptions(client, mocks.NewOtel(), ttl, 5*time.Millisecond), server
}

func TestPoolLock_AcquireAndRelease(t *testing.T) {
	locker, server := newPoolLock(t, time.Second)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "2")
	require.NoError(t, err)
	assert.True(t, server.Exists("poolbook:lock:pool:2"))
	assert.NoError(t, locker.AcquireTx(ctx, nil, "2"))

	release()
	assert.False(t, server.Exists("poolbook:lock:pool:2"))

	release, err = locker.Acquire(ctx, "2")
	require.NoError(t, err)
	release()
}

func TestPoolLock_BusyUntilTimeout(t *testing.T) {
	locker, _ := newPoolLock(t, 50*time.Millisecond)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "2")
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(ctx, "2")
	assert.ErrorIs(t, err, lock.ErrNotAcquired)
}

func TestPoolLock_ContextCancelled(t *testing.T) {
	locker, _ := newPoolLock(t, 5*time.Second)

	release, err := locker.Acquire(context.Background(), "2")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, "2")
	assert.ErrorIs(t, err, lock.ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolLock_PoolsAreIndependent(t *testing.T) {
	locker, _ := newPoolLock(t, time.Second)
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, "1")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.Acquire(ctx, "2")
	require.NoError(t, err)
	releaseB()
}

func TestPoolLock_StaleReleaseKeepsNewHolder(t *testing.T) {
	locker, server := newPoolLock(t, time.Second)
	ctx := context.Background()

	staleRelease, err := locker.Acquire(ctx, "2")
	require.NoError(t, err)

	server.FastForward(2 * time.Second)

	release, err := locker.Acquire(ctx, "2")
	require.NoError(t, err)

	staleRelease()
	assert.True(t, server.Exists("poolbook:lock:pool:2"))

	release()
	assert.False(t, server.Exists("poolbook:lock:pool:2"))
}

func TestPoolLock_MutualExclusion(t *testing.T) {
	locker, _ := newPoolLock(t, 2*time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		overlap atomic.Bool
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := locker.Acquire(ctx, "2")
			if err != nil {
				return
			}

			if holders.Add(1) > 1 {
				overlap.Store(true)
			}

			time.Sleep(2 * time.Millisecond)
			holders.Add(-1)
			release()
		}()
	}

	wg.Wait()

	assert.False(t, overlap.Load())
}
