package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a sliding-window rate limiter over Redis sorted
// sets, adapted from the teacher's settlement-request limiter to instead
// gate sweep-cell admission: how many grid cells a given caller may enqueue
// into engine/sweep within a time window.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter wraps an existing Redis client.
func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// AdmissionConfig bounds how many sweep cells a caller (Key) may submit per
// Window.
type AdmissionConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// AdmissionResult reports the outcome of one admission check.
type AdmissionResult struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// slidingWindowScript atomically evicts entries older than the window,
// counts what remains, and admits the new entry only if under the limit.
// KEYS[1] = sorted-set key, ARGV[1] = now (unix nanos), ARGV[2] = window
// (nanos), ARGV[3] = limit, ARGV[4] = member (unique per call).
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, math.ceil(window / 1e6))
	return {1, limit - count - 1}
end

return {0, 0}
`)

// Allow admits one sweep-cell submission under cfg, or reports that the
// caller must wait.
func (r *RateLimiter) Allow(ctx context.Context, cfg AdmissionConfig) (AdmissionResult, error) {
	now := time.Now()
	member := fmt.Sprintf("%d-%s", now.UnixNano(), cfg.Key)

	res, err := slidingWindowScript.Run(ctx, r.rdb, []string{cfg.Key},
		now.UnixNano(), cfg.Window.Nanoseconds(), cfg.Limit, member).Result()
	if err != nil {
		return AdmissionResult{}, fmt.Errorf("cache: rate limit check failed: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return AdmissionResult{}, fmt.Errorf("cache: unexpected rate limit script result: %v", res)
	}
	allowed := vals[0].(int64) == 1
	remaining := int(vals[1].(int64))

	return AdmissionResult{
		Allowed:    allowed,
		Remaining:  remaining,
		ResetAt:    now.Add(cfg.Window),
		RetryAfter: cfg.Window,
	}, nil
}

// Reset clears all admission history for a key, letting the caller submit a
// fresh burst immediately.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: failed to reset rate limit key %q: %w", key, err)
	}
	return nil
}
