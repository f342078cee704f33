package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitPrefix is the Redis key prefix for per-IP rate limits.
	rateLimitPrefix = "ratelimit:"
	// rateLimitTTL is the TTL for rate limit keys.
	rateLimitTTL = 10 * time.Minute
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes tokens atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- bucket capacity
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit consumes one token from the bucket of ip within scope
// (e.g. "login"). The IP is hashed before it is used as a key.
// Redis failures fail open.
func (c *Cache) CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerMinute, burst int) (*RateLimitResult, error) {
	if ratePerMinute <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst)}, nil
	}

	key := rateLimitKey(scope, ip)
	rate := float64(ratePerMinute) / 60.0

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rate, burst, time.Now().Unix(), int(rateLimitTTL.Seconds()),
	).Int64Slice()
	if err != nil || len(result) != 3 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst)}, nil //nolint:nilerr
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

func rateLimitKey(scope, ip string) string {
	return rateLimitPrefix + scope + ":" + hashIP(ip)
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
