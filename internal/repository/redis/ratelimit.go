package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	rateLimitPrefix = "ratelimit:"
)

// RateLimiter is a fixed one-minute window counter shared by all instances
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
	now               func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		now:               time.Now,
	}
}

// Allow checks if a request should be allowed based on rate limits
// Returns (allowed, remaining, resetTime, error)
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := r.now().Truncate(time.Minute)
	windowEnd := windowStart.Add(time.Minute)
	fullKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())

	pipe := r.client.rdb.TxPipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireAt(ctx, fullKey, windowEnd.Add(time.Second))

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	limit := int64(r.requestsPerMinute + r.burst)
	remaining := int(limit - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, windowEnd, nil
}

// Limit returns the number of requests allowed per window
func (r *RateLimiter) Limit() int {
	return r.requestsPerMinute + r.burst
}

// Reset resets the current window for a key
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	windowStart := r.now().Truncate(time.Minute)
	fullKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())
	return r.client.rdb.Del(ctx, fullKey).Err()
}
