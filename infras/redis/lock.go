package redis

import (
	"context"
	"fmt"
	"poolbook/config"
	"poolbook/infras/otel"
	"poolbook/shared"
	"poolbook/shared/constant"
	"poolbook/shared/lock"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by someone else is left alone.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PoolLock is a Redis backed lock held for the whole transaction. The key
// expires after ttl so a crashed holder cannot block a pool forever.
type PoolLock struct {
	client goRedis.UniversalClient
	otel   otel.Otel
	ttl    time.Duration
	retry  time.Duration
}

func NewPoolLock(client *goRedis.Client, config *config.Config, otl otel.Otel) *PoolLock {
	return NewPoolLockWithOptions(
		client,
		otl,
		time.Duration(config.Booking.Lock.TTLSeconds)*time.Second,
		time.Duration(config.Booking.Lock.RetryMillis)*time.Millisecond,
	)
}

func NewPoolLockWithOptions(client goRedis.UniversalClient, otl otel.Otel, ttl, retry time.Duration) *PoolLock {
	return &PoolLock{
		client: client,
		otel:   otl,
		ttl:    ttl,
		retry:  retry,
	}
}

// Acquire polls until the lock is free, ctx is done or ttl has elapsed.
func (l *PoolLock) Acquire(ctx context.Context, key string) (release func(), err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".redis.Acquire")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	lockKey := shared.BuildCacheKey(constant.LockKeyPrefix, key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.ttl)

	scope.SetAttribute(constant.OtelPoolIDAttributeKey, key)

	for {
		acquired, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: pool %s: %w", lock.ErrNotAcquired, key, ctx.Err())
			}

			return nil, fmt.Errorf("failed to acquire pool lock (%s): %w", key, err)
		}

		if acquired {
			return l.releaser(ctx, lockKey, token), nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: pool %s", lock.ErrNotAcquired, key)
		}

		timer := time.NewTimer(l.retry)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, fmt.Errorf("%w: pool %s: %w", lock.ErrNotAcquired, key, ctx.Err())
		case <-timer.C:
		}
	}
}

// TTL is how long a hold lasts before Redis drops the key.
func (l *PoolLock) TTL() time.Duration {
	return l.ttl
}

// AcquireTx is a no-op; the lock is held around the transaction.
func (l *PoolLock) AcquireTx(_ context.Context, _ *sqlx.Tx, _ string) error {
	return nil
}

func (l *PoolLock) releaser(ctx context.Context, lockKey, token string) func() {
	return func() {
		c := context.WithoutCancel(ctx)

		if err := releaseScript.Run(c, l.client, []string{lockKey}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", lockKey).Msg("failed to release pool lock")
		}
	}
}
