package middleware

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/pkg/clientip"
	"github.com/dmitrymomot/cafe/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Limiter is required
	Limiter ratelimiter.RateLimiter
	// KeyExtractor builds the bucket key (default: client IP plus route path)
	KeyExtractor func(ctx handler.Context) string
	// ErrorHandler answers denied requests (default: 429 error)
	ErrorHandler func(ctx handler.Context, result *ratelimiter.Result) handler.Response
	// SetHeaders adds X-RateLimit-* headers to every response
	SetHeaders bool
}

// RateLimit limits requests per client with limiter.
func RateLimit[C handler.Context](limiter ratelimiter.RateLimiter) handler.Middleware[C] {
	return RateLimitWithConfig[C](RateLimitConfig{Limiter: limiter, SetHeaders: true})
}

// RateLimitWithConfig is RateLimit with custom configuration.
// Limiter failures let the request through.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			ip, ok := GetClientIP(ctx)
			if !ok {
				ip = clientip.GetIP(ctx.Request())
			}
			return ip + ":" + ctx.Request().URL.Path
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ handler.Context, result *ratelimiter.Result) handler.Response {
			return response.Error(response.ErrTooManyRequests.WithDetails(map[string]any{
				"retry_after": int(result.RetryAfter().Seconds()),
			}))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			result, err := cfg.Limiter.Allow(ctx, cfg.KeyExtractor(ctx))
			if err != nil {
				return next(ctx)
			}

			if cfg.SetHeaders {
				setRateLimitHeaders(ctx.ResponseWriter(), result)
			}
			if !result.Allowed() {
				return cfg.ErrorHandler(ctx, result)
			}
			return next(ctx)
		}
	}
}

func setRateLimitHeaders(w http.ResponseWriter, result *ratelimiter.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed() {
		h.Set("Retry-After", strconv.Itoa(max(1, int(result.RetryAfter().Seconds()))))
	}
}
