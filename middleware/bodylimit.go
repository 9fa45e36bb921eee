package middleware

import (
	"mime"
	"net/http"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
)

// Common size constants.
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// MaxSize is the limit in bytes (default: 1MB)
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type
	ContentTypeLimit map[string]int64
}

// BodyLimit limits request bodies to 1MB.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize limits request bodies to maxSize bytes.
func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose declared Content-Length is over
// the limit with 413 and caps the body of the rest, so reads past the limit
// fail with *http.MaxBytesError.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MB
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			limit := cfg.MaxSize
			if mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type")); err == nil {
				if l, ok := cfg.ContentTypeLimit[mediaType]; ok {
					limit = l
				}
			}

			if req.ContentLength > limit {
				return response.Error(response.ErrRequestTooLarge.WithDetails(map[string]any{
					"limit": limit,
					"size":  req.ContentLength,
				}))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, limit)
			}

			return next(ctx)
		}
	}
}
