// Package middleware provides the handler.Middleware chain of the site.
//
// Every middleware follows the same shape: a XConfig struct with a Skip
// func, a constructor with defaults (X[C]()) and one taking the config
// (XWithConfig[C](cfg)). Values a middleware attaches to the request are
// read back with its getter, for example GetRequestID or GetSettings.
//
// A typical chain, outermost first:
//
//	r := router.New[*cafe.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*cafe.Context](),
//			middleware.ClientIP[*cafe.Context](),
//			middleware.LoggingWithLogger[*cafe.Context](log),
//			middleware.SecurityHeaders[*cafe.Context](),
//			middleware.BodyLimitWithSize[*cafe.Context](64*middleware.KB),
//			middleware.Session[*cafe.Context](transport, log),
//			middleware.Settings[*cafe.Context](cookies, log),
//			middleware.I18n[*cafe.Context](translations, "app"),
//		),
//	)
//
//	r.With(middleware.AuthGuard[*cafe.Context]()).Get("/page", page)
//
// # Preferences
//
// Settings attaches a settings.Hydrator. GET and HEAD requests are the server
// render pass; other methods are the browser pass and reuse the transfer state
// posted back in the "state" form field. I18n then picks the language from the
// resolved settings.
//
// # Sessions and credentials
//
// Session loads a *session.Session before the handler and saves it after the
// handler returns, before the response is written. AuthGuard expects a
// token.Manager in the context and redirects to the login page with a
// returnUrl when AutoLogin fails. SafeReturnURL keeps returnUrl on this site.
//
// # Abuse protection
//
// BodyLimit caps request bodies and RateLimit throttles requests per client
// and path with a pkg/ratelimiter limiter.
package middleware
