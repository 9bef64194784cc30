package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"filingcontrol/pkg/platform/sentinel"
)

const (
	// Redis key guarding concurrent monitor runs
	runLockKey = "fc:monitor:run-lock"

	// Long enough for a full sweep, short enough that a crashed run does
	// not block the next scheduled one for long.
	runLockTTL = 10 * time.Minute
)

// RunLock serializes monitor runs across instances. Acquisition is an atomic
// SET NX with TTL, so a crashed holder releases the lock by expiry.
type RunLock interface {
	// Acquire takes the lock, returning sentinel.ErrConflict when another
	// run holds it.
	Acquire(ctx context.Context) error

	// Release drops the lock. Safe to call after expiry.
	Release(ctx context.Context) error
}

// RedisRunLock is the production RunLock for distributed deployments.
type RedisRunLock struct {
	client *redis.Client
}

// NewRedisRunLock constructs a Redis-backed run lock.
func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

func (l *RedisRunLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, runLockKey, "1", runLockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire monitor run lock: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (l *RedisRunLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, runLockKey).Err(); err != nil {
		return fmt.Errorf("release monitor run lock: %w", err)
	}
	return nil
}

// NoopRunLock is a RunLock for single-instance deployments without Redis.
type NoopRunLock struct{}

func (NoopRunLock) Acquire(context.Context) error { return nil }
func (NoopRunLock) Release(context.Context) error { return nil }
