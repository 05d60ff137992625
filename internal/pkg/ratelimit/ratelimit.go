package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/metrics"
)

const keyPrefix = "berichtsheft:ratelimit:login:"

// Token bucket shared across instances via redis. Atomic in a single EVAL so
// concurrent logins cannot over-consume.
const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

if rate <= 0 or burst <= 0 then
  return 1
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
local refill = (delta * rate) / 1000.0
tokens = math.min(burst, tokens + refill)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return allowed
`

// Limiter throttles login attempts per caller key (email + client IP) using
// a redis-backed token bucket. A nil Limiter, or one with a non-positive
// rate, allows everything.
type Limiter struct {
	rdb    *redis.Client
	rate   float64 // tokens per second
	burst  float64 // bucket capacity
	script *redis.Script
}

// NewLoginLimiter creates a login throttle with the given refill rate
// (tokens/s) and burst capacity.
func NewLoginLimiter(rdb *redis.Client, rate, burst float64) *Limiter {
	return &Limiter{
		rdb:    rdb,
		rate:   rate,
		burst:  burst,
		script: redis.NewScript(tokenBucketLua),
	}
}

// Allow consumes one token for key and reports whether the attempt may
// proceed. Redis errors are returned so the caller can decide to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil || l.rate <= 0 || l.burst <= 0 {
		return true, nil
	}

	start := time.Now()
	now := start.UnixMilli()
	res, err := l.script.Run(ctx, l.rdb, []string{keyPrefix + hashKey(key)}, l.rate, l.burst, now).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}
	if metrics.RateLimitWaitDuration != nil {
		metrics.RateLimitWaitDuration.Observe(time.Since(start).Seconds())
	}
	return toInt64(res) == 1, nil
}

// hashKey keeps emails out of redis key names.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
