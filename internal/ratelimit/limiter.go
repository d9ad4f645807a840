// Package ratelimit caps request rates per key with fixed windows in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"taskboard/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// WindowStore counts hits in a fixed window.
type WindowStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RedisStore keeps counters in Redis.
type RedisStore struct {
	rdb redis.Scripter
}

func NewRedisStore(rdb redis.Scripter) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return utils.IncrementWindow(ctx, s.rdb, key, window)
}

// Limiter allows up to Limit hits per key in each Window.
type Limiter struct {
	store  WindowStore
	limit  int64
	window time.Duration
	prefix string
}

// NewLimiter builds a limiter. limit <= 0 disables it.
func NewLimiter(store WindowStore, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window, prefix: prefix}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.store != nil && l.limit > 0 && l.window > 0
}

// Allow records a hit for key. When the limit is exceeded it returns
// ok=false and the whole seconds until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (retryAfterSec int64, ok bool, err error) {
	if !l.Enabled() {
		return 0, true, nil
	}
	count, ttl, err := l.store.Increment(ctx, l.prefix+key, l.window)
	if err != nil {
		return 0, false, fmt.Errorf("rate limit: %w", err)
	}
	if count <= l.limit {
		return 0, true, nil
	}
	if ttl <= 0 {
		ttl = l.window
	}
	return int64(math.Ceil(ttl.Seconds())), false, nil
}
