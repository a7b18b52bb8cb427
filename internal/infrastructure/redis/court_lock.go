package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("court lock not acquired")
	ErrLockNotOwned    = errors.New("court lock owned by someone else")
)

// CourtLock is a Redis-backed mutual-exclusion scope for one court and date.
// It is held across the conflict-check-and-create sequence so two concurrent
// hold requests for overlapping slots cannot both pass the check.
type CourtLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// LockManager hands out court locks.
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// LockKey builds the lock key for a court and date.
func LockKey(courtID, date string) string {
	return fmt.Sprintf("court:%s:%s", courtID, date)
}

// Acquire takes the lock, failing fast with ErrLockNotAcquired when another
// holder has it. SETNX makes acquisition atomic.
func (m *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*CourtLock, error) {
	lockKey := "lock:" + key
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring court lock: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &CourtLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// AcquireWithRetry retries a contended lock a bounded number of times.
func (m *LockManager) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*CourtLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.Acquire(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release frees the lock. The Lua script checks ownership and deletes
// atomically so an expired-and-reacquired lock is never released by the
// previous holder.
func (l *CourtLock) Release(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("releasing court lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend pushes out the lock's expiry while still owned.
func (l *CourtLock) Extend(ctx context.Context, ttl time.Duration) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("extending court lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}
