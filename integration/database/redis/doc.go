// Package redis connects to Redis and keeps browser sessions and rate limit
// buckets in it.
//
// Connect validates the URL (redis:// or rediss://), pings the server and
// retries with exponential backoff until RetryAttempts is exhausted or the
// ConnectTimeout elapses:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck returns a probe for health.Readiness.
//
// SessionStore implements session.Store on top of the client. Each session is
// a JSON document with the session's own expiry as the key TTL, plus a token
// index key so lookups by cookie token stay O(1):
//
//	store := redis.NewSessionStore[app.SessionData](client, cfg.KeyPrefix)
//	sessions := session.NewFromConfig(store, sessionCfg)
//
// RateLimitStore implements ratelimiter.Store with a Lua script, so the
// refill-and-consume step is atomic and buckets are shared by all instances.
//
// Errors are sentinel values (ErrEmptyConnectionURL, ErrRedisNotReady, ...)
// joined with the underlying go-redis error; match them with errors.Is.
package redis
