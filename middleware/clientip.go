package middleware

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// HeaderName is the response header used when StoreInHeader is set (default: X-Client-IP)
	HeaderName string
	// StoreInHeader echoes the resolved IP in the response
	StoreInHeader bool
	// ValidateFunc rejects requests with 403 when it returns an error
	ValidateFunc func(ctx handler.Context, ip string) error
}

// ClientIP resolves the client address from proxy headers and stores it in
// the request context.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

// ClientIPWithConfig is ClientIP with custom configuration.
func ClientIPWithConfig[C handler.Context](cfg ClientIPConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			ip := clientip.GetIP(ctx.Request())
			ctx.SetValue(clientIPContextKey{}, ip)

			if cfg.ValidateFunc != nil {
				if err := cfg.ValidateFunc(ctx, ip); err != nil {
					return response.Error(response.ErrForbidden.WithError(err))
				}
			}

			resp := next(ctx)
			if !cfg.StoreInHeader || resp == nil {
				return resp
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, ip)
				return resp(w, r)
			}
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok && ip != ""
}
