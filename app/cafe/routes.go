package cafe

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/health"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/router"
	"github.com/dmitrymomot/cafe/core/static"
	"github.com/dmitrymomot/cafe/middleware"
)

const (
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
	otpPath    = "/otp-verification"
	cafePath   = "/page"
)

const staticCacheControl = "public, max-age=31536000, immutable"

// recaptchaSources are allowed to load the reCAPTCHA widget.
const recaptchaSources = "https://www.google.com https://www.gstatic.com"

func (a *App) routes() router.Router[*Context] {
	r := router.New(
		router.WithContextFactory[*Context](newContext),
		router.WithErrorHandler[*Context](a.errorHandler),
		router.WithLogger[*Context](a.logger),
	)

	r.Use(
		middleware.RequestID[*Context](),
		middleware.ClientIP[*Context](),
		middleware.LoggingWithLogger[*Context](a.logger),
		middleware.SecurityHeadersWithConfig[*Context](a.securityHeaders()),
		middleware.BodyLimitWithSize[*Context](64*middleware.KB),
	)

	r.HandleHTTP("/static/", a.staticFiles())

	r.Get("/health/live", health.Liveness[*Context](a.config.Version))
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.checks...))

	r.Get("/", redirectTo(loginPath))
	r.Get("/auth", redirectTo(loginPath))
	r.Get("/login", redirectTo(loginPath))
	r.Get("/signup", redirectTo(signupPath))

	r.Group(func(r router.Router[*Context]) {
		r.Use(
			middleware.Session[*Context](a.transport, a.logger),
			middleware.Settings[*Context](a.cookies, a.logger),
			middleware.I18n[*Context](a.i18n, translationNamespace),
			Credentials(CredentialsConfig{
				Client:     a.api,
				Cookies:    a.cookies,
				CookieName: a.config.RefreshCookie,
				CookieTTL:  a.config.RefreshCookieTTL,
				Logger:     a.logger.With(logger.Component("credentials")),
			}),
		)

		limited := r.With(middleware.RateLimitWithConfig[*Context](middleware.RateLimitConfig{
			Limiter:    a.limiter,
			SetHeaders: true,
		}))

		r.Get(loginPath, a.loginPage)
		limited.Post(loginPath, a.login)
		r.Get(signupPath, a.signupPage)
		limited.Post(signupPath, a.signup)
		r.Get(otpPath, a.otpPage)
		limited.Post(otpPath, a.verifyOTP)
		limited.Post(otpPath+"/resend", a.resendOTP)
		r.Post("/auth/logout", a.logout)

		r.Post("/settings/theme", a.toggleTheme)
		r.Post("/settings/language", a.changeLanguage)

		r.Get("/cities", a.listCities)

		r.With(middleware.AuthGuardWithConfig[*Context](middleware.AuthGuardConfig{
			LoginURL: loginPath,
			Logger:   a.logger.With(logger.Component("auth")),
		})).Get(cafePath, a.cafePage)
	})

	r.NotFound(func(*Context) handler.Response {
		return response.Redirect(loginPath)
	})

	return r
}

// redirectTo sends the visitor to path, keeping the query string.
func redirectTo(path string) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		target := path
		if q := ctx.Request().URL.RawQuery; q != "" {
			target += "?" + q
		}
		return response.Redirect(target)
	}
}

func (a *App) securityHeaders() middleware.SecurityHeadersConfig {
	cfg := middleware.BalancedSecurity
	if a.config.IsDevelopment() {
		cfg = middleware.DevelopmentSecurity
	}
	if a.config.RecaptchaSiteKey != "" {
		cfg.ContentSecurityPolicy = strings.Replace(cfg.ContentSecurityPolicy,
			"script-src 'self'", "script-src 'self' "+recaptchaSources, 1) +
			"; frame-src " + recaptchaSources
	}
	return cfg
}

// staticFiles serves the embedded assets. File names carry no version, so the
// layout appends ?v=<version> to every asset URL.
func (a *App) staticFiles() http.Handler {
	return static.FS(assets,
		static.WithSubFS("static"),
		static.WithStripPrefix("/static/"),
		static.WithCacheControl(staticCacheControl),
	)
}

// errorHandler answers JSON clients with JSON and everyone else with the
// error page.
func (a *App) errorHandler(ctx *Context, err error) {
	if w, ok := ctx.ResponseWriter().(interface{ Written() bool }); ok && w.Written() {
		return
	}

	httpErr := response.AsHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		var pe router.PanicError
		if errors.As(err, &pe) {
			a.logger.ErrorContext(ctx, "panic recovered",
				logger.Error(err), logger.Path(ctx.Request().URL.Path))
		} else {
			a.logger.ErrorContext(ctx, "request failed",
				logger.Error(err), logger.Path(ctx.Request().URL.Path))
		}
	}

	if wantsJSON(ctx.Request()) {
		response.JSONErrorHandler(ctx, httpErr)
		return
	}

	v := a.view(ctx, ctx.T("error.title"))
	v.Data = errorPage{Status: httpErr.Status, Key: errorKey(httpErr.Status)}
	response.Render(ctx, a.render(pageError, httpErr.Status, v))
}

type errorPage struct {
	Status int
	Key    string
}

func errorKey(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return "error.badRequest"
	case http.StatusNotFound:
		return "error.notFound"
	case http.StatusTooManyRequests:
		return "error.tooManyRequests"
	default:
		return "error.generic"
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/cities")
}
