// Package ratelimiter implements token bucket rate limiting over a pluggable
// Store.
//
// A bucket holds at most Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes one token (or n with AllowN); a request
// that finds too few tokens is denied and takes nothing.
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Start(ctx)
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err == nil && !res.Allowed() {
//		wait := res.RetryAfter()
//	}
//
// MemoryStore serves a single instance. A Redis-backed Store that shares
// buckets across instances lives in integration/database/redis.
package ratelimiter
