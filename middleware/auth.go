package middleware

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/token"
)

// ReturnURLParam is the query parameter carrying the page to come back to
// after login.
const ReturnURLParam = "returnUrl"

// AuthGuardConfig configures the auth guard.
type AuthGuardConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// LoginURL is where unauthenticated visitors go (default: /auth/login)
	LoginURL string
	// Logger receives failed sign-in attempts at debug level
	Logger *slog.Logger
}

// AuthGuard lets a request through only when the credential manager in the
// context can produce an access token.
func AuthGuard[C handler.Context]() handler.Middleware[C] {
	return AuthGuardWithConfig[C](AuthGuardConfig{})
}

// AuthGuardWithConfig runs token.Manager.AutoLogin, which refreshes an
// expired access token when a refresh token exists. On failure the visitor is
// redirected to the login page with the current path in returnUrl.
func AuthGuardWithConfig[C handler.Context](cfg AuthGuardConfig) handler.Middleware[C] {
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/auth/login"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			tokens := token.FromContext(ctx)
			if tokens == nil {
				return response.Redirect(LoginRedirectURL(cfg.LoginURL, ctx.Request().URL.RequestURI()))
			}
			if _, err := tokens.AutoLogin(ctx); err != nil {
				cfg.Logger.DebugContext(ctx, "auth guard rejected request",
					logger.Path(ctx.Request().URL.Path), logger.Error(err))
				return response.Redirect(LoginRedirectURL(cfg.LoginURL, ctx.Request().URL.RequestURI()))
			}
			return next(ctx)
		}
	}
}

// LoginRedirectURL appends returnUrl to loginURL when returnTo is a local path.
func LoginRedirectURL(loginURL, returnTo string) string {
	if SafeReturnURL(returnTo, "") == "" {
		return loginURL
	}
	return loginURL + "?" + url.Values{ReturnURLParam: {returnTo}}.Encode()
}

// SafeReturnURL returns raw when it is a path on this site and fallback
// otherwise, so returnUrl cannot send visitors to another host.
func SafeReturnURL(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return raw
}
