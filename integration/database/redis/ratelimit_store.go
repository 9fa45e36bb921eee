package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cafe/pkg/ratelimiter"
)

// consumeScript refills and consumes a bucket atomically.
// KEYS[1] bucket hash; ARGV: capacity, refill rate, interval ms, tokens, now ms.
// Returns {remaining, reset_at_ms}.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local tokens = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call("HMGET", KEYS[1], "tokens", "refill")
local current = tonumber(state[1])
local refill = tonumber(state[2])
if current == nil then
	current = capacity
	refill = now
end

local intervals = math.floor((now - refill) / interval)
local cap = math.floor(capacity / rate) + 1
if intervals > cap then
	intervals = cap
end
if intervals > 0 then
	current = math.min(current + intervals * rate, capacity)
	refill = refill + intervals * interval
	if current == capacity then
		refill = now
	end
end

local remaining
if current < tokens then
	remaining = current - tokens
else
	current = current - tokens
	remaining = current
end

redis.call("HSET", KEYS[1], "tokens", current, "refill", refill)
redis.call("PEXPIRE", KEYS[1], interval * (cap + 1))
return {remaining, refill + interval}
`)

// RateLimitStore is a ratelimiter.Store shared by every instance that talks
// to the same Redis server.
type RateLimitStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ratelimiter.Store = (*RateLimitStore)(nil)

// NewRateLimitStore creates a store. keyPrefix namespaces all keys.
func NewRateLimitStore(client redis.UniversalClient, keyPrefix string) *RateLimitStore {
	return &RateLimitStore{client: client, prefix: keyPrefix + "ratelimit:"}
}

// ConsumeTokens implements ratelimiter.Store.
func (s *RateLimitStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg ratelimiter.Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		tokens,
		time.Now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("consume tokens: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("consume tokens: unexpected reply of %d values", len(res))
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

// Reset implements ratelimiter.Store.
func (s *RateLimitStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("reset bucket: %w", err)
	}
	return nil
}
