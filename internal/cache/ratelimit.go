package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chinmayYpatil/Feedback-Form/internal/ratelimit"
)

// rateLimitPrefix is the Redis key prefix for submission rate limit counters.
const rateLimitPrefix = "ratelimit:feedback:"

// fixedWindowScript counts a request and returns {count, remaining_ttl_ms}.
// The expiry is set only when the counter is created, so the window does not
// slide with later requests. A counter found without a TTL gets one again.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_ms = tonumber(ARGV[1])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window_ms)
	end

	local ttl = redis.call('PTTL', key)
	if ttl < 0 then
		redis.call('PEXPIRE', key, window_ms)
		ttl = window_ms
	end

	return {count, ttl}
`)

// FixedWindowLimiter is a ratelimit.Limiter whose counters live in Redis,
// shared by every instance pointing at the same database.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ ratelimit.Limiter = (*FixedWindowLimiter)(nil)

// NewFixedWindowLimiter creates a shared fixed window limiter on c.
func NewFixedWindowLimiter(c *Cache, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client: c.client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Check counts a request for key and reports whether it is within the limit.
// Client keys are hashed so raw addresses are never stored in Redis.
func (l *FixedWindowLimiter) Check(ctx context.Context, key string) (*ratelimit.Result, error) {
	redisKey := rateLimitPrefix + hashKey(key)

	vals, err := fixedWindowScript.Run(ctx, l.client,
		[]string{redisKey},
		l.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("unexpected rate limit script reply: %v", vals)
	}

	count := vals[0]
	ttl := time.Duration(vals[1]) * time.Millisecond
	now := l.now()

	res := &ratelimit.Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: l.limit - int(count),
		ResetAt:   now.Add(ttl),
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}

	return res, nil
}

// hashKey creates a truncated SHA256 hash of a client key.
func hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
