package lock

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultLockTTL = 2 * time.Minute

// RedisLocker implements Locker with SET NX so the per-order lock is visible
// to every worker replica. Keys carry a TTL as crash protection: a worker
// that dies mid-processing cannot strand its order forever.
type RedisLocker struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    zerolog.Logger
}

// RedisOption customises the Redis locker.
type RedisOption func(*RedisLocker)

// WithLockTTL overrides the lock expiry used as crash protection.
func WithLockTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// NewRedisLocker constructs a Redis-backed locker.
func NewRedisLocker(client redis.UniversalClient, logger zerolog.Logger, opts ...RedisOption) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis locker: client dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	l := &RedisLocker{
		client:    client,
		keyPrefix: "payments:order-lock:",
		ttl:       defaultLockTTL,
		logger:    logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l, nil
}

// TryLock implements Locker.
func (l *RedisLocker) TryLock(ctx context.Context, orderID string) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key(orderID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis locker: acquire %s: %w", orderID, err)
	}
	return acquired, nil
}

// Unlock implements Locker.
func (l *RedisLocker) Unlock(ctx context.Context, orderID string) error {
	if err := l.client.Del(ctx, l.key(orderID)).Err(); err != nil {
		return fmt.Errorf("redis locker: release %s: %w", orderID, err)
	}
	return nil
}

// IsLocked implements Locker.
func (l *RedisLocker) IsLocked(ctx context.Context, orderID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(orderID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis locker: inspect %s: %w", orderID, err)
	}
	return n > 0, nil
}

func (l *RedisLocker) key(orderID string) string {
	return l.keyPrefix + orderID
}
