// Package rateLimit implements a fixed-window request limiter backed by
// Redis, keyed per user and per client IP.
package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/isuprotikroy/Sonciv/internal/adapters/redis"
)

type RateLimiter struct {
	redis *redisadapter.Cache
}

func NewRateLimiter(redis *redisadapter.Cache) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow counts a request against the window for key and reports whether it
// stays within rate. The window expiry is set only when the counter is
// fresh, so steady traffic cannot stretch the window indefinitely.
func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	fullKey := "rl:" + key

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, period)

	if _, err := pipe.Exec(ctx); err != nil {
		// fail closed, an unreachable limiter must not lift the cap
		return false
	}
	return incr.Val() <= int64(rate)
}
