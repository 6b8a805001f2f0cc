package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding-window limiter shared by every process on the same Redis
type RateLimiter struct {
	client *Client
	prefix string
	seq    atomic.Uint64
}

// RateLimitConfig is one upstream's request budget
type RateLimitConfig struct {
	Key    string        // upstream name, e.g. "yahoo"
	Limit  int           // requests per Window
	Window time.Duration
}

// Request budgets for the price upstreams
var (
	YahooRateLimit = RateLimitConfig{Key: "yahoo", Limit: 5, Window: time.Second}
	NaverRateLimit = RateLimitConfig{Key: "naver", Limit: 10, Window: time.Second}
)

// slidingWindow admits a request when fewer than limit members are younger than the window.
// Returns {allowed, remaining, retry_after_ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, limit - count - 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local wait = window
if oldest[2] then
	wait = tonumber(oldest[2]) + window - now
end
return {0, 0, wait}
`)

// NewRateLimiter creates a limiter whose keys live under prefix
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

// Allow reports whether one more request fits in cfg's window.
// With Redis disabled every request is allowed.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	allowed, remaining, _, err := r.take(ctx, cfg)
	return allowed, remaining, err
}

// Wait blocks until a request is admitted or ctx is done
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, retryAfter, err := r.take(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		if retryAfter <= 0 {
			retryAfter = 10 * time.Millisecond
		}
		timer := time.NewTimer(retryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RateLimiter) take(ctx context.Context, cfg RateLimitConfig) (bool, int, time.Duration, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, 0, nil
	}

	now := time.Now().UnixMilli()
	// members must be unique or requests in the same millisecond collapse
	member := fmt.Sprintf("%d-%d", now, r.seq.Add(1))
	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)

	res, err := slidingWindow.Run(ctx, r.client.Redis(), []string{key},
		now, cfg.Window.Milliseconds(), cfg.Limit, member,
	).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("rate limit %s: unexpected reply %v", cfg.Key, res)
	}

	return res[0] == 1, int(res[1]), time.Duration(res[2]) * time.Millisecond, nil
}
