package cafe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/auth"
	"github.com/dmitrymomot/cafe/core/config"
	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/health"
	"github.com/dmitrymomot/cafe/core/i18n"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/router"
	"github.com/dmitrymomot/cafe/core/server"
	"github.com/dmitrymomot/cafe/core/session"
	"github.com/dmitrymomot/cafe/core/sessiontransport"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/core/token"
	"github.com/dmitrymomot/cafe/middleware"
	"github.com/dmitrymomot/cafe/pkg/ratelimiter"
)

// translationNamespace holds every key of the site.
const translationNamespace = "app"

const sessionCleanupInterval = 10 * time.Minute

type App struct {
	config Config
	logger *slog.Logger

	router    router.Router[*Context]
	server    *server.Server
	cookies   *cookie.Manager
	api       *apiclient.Client
	i18n      *i18n.I18n
	sessions  *session.Manager[SessionData]
	store     session.Store[SessionData]
	transport *sessiontransport.Cookie[SessionData]
	limits    ratelimiter.Store
	limiter   ratelimiter.RateLimiter
	views     *views

	checks  []health.Check
	workers []func(context.Context) error
}

type AppOption func(*App) error

// NewApp wires the site. Configuration is read from the environment unless
// WithConfig is given. Without WithSessionStore and WithRateLimitStore the
// app keeps sessions and rate limits in memory.
func NewApp(opts ...AppOption) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config.API.BaseURL == "" {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}
	if app.logger == nil {
		app.logger = logger.NewFromConfig(app.config.Log,
			logger.WithAttr(logger.Version(app.config.Version)),
			logger.WithContextExtractors(middleware.RequestIDExtractor),
		)
	}

	cm, err := cookie.NewFromConfig(app.config.Cookie)
	if err != nil {
		return nil, fmt.Errorf("cookie manager: %w", err)
	}
	app.cookies = cm

	if app.api == nil {
		api, err := apiclient.NewFromConfig(app.config.API,
			apiclient.WithInterceptor(apiclient.Bearer(token.AccessTokenFromContext)),
			apiclient.WithLogger(app.logger.With(logger.Component("apiclient"))),
		)
		if err != nil {
			return nil, fmt.Errorf("api client: %w", err)
		}
		app.api = api
	}

	tr, err := i18n.New(
		i18n.WithDefaultLanguage(string(settings.DefaultLanguage)),
		i18n.WithLanguages(languages()...),
		i18n.WithFS(assets, "locales", translationNamespace),
	)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	app.i18n = tr

	if app.views, err = loadViews(assets); err != nil {
		return nil, err
	}

	if app.store == nil {
		app.store = session.NewMemoryStore[SessionData]()
		app.workers = append(app.workers, app.cleanupSessions)
	}
	app.sessions = session.NewFromConfig(app.store, app.config.Session)
	app.transport = sessiontransport.NewCookieFromConfig(app.config.Transport, app.sessions, app.cookies)

	if app.limits == nil {
		mem := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(app.logger))
		app.limits = mem
		app.workers = append(app.workers, mem.Start)
	}
	limiter, err := ratelimiter.NewBucket(app.limits, app.config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	app.limiter = limiter

	app.checks = append(app.checks, health.Check{Name: "api", Probe: apiclient.Healthcheck(app.api, "health")})

	app.router = app.routes()

	srv, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger.With(logger.Component("server"))))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	app.server = srv

	return app, nil
}

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		if cfg.API.BaseURL == "" {
			return errors.New("api base url cannot be empty")
		}
		app.config = cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithAPIClient replaces the upstream client. It must carry the bearer interceptor.
func WithAPIClient(client *apiclient.Client) AppOption {
	return func(app *App) error {
		if client == nil {
			return errors.New("api client cannot be nil")
		}
		app.api = client
		return nil
	}
}

func WithSessionStore(store session.Store[SessionData]) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("session store cannot be nil")
		}
		app.store = store
		return nil
	}
}

func WithRateLimitStore(store ratelimiter.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("rate limit store cannot be nil")
		}
		app.limits = store
		return nil
	}
}

// WithReadinessCheck adds dependency probes to /health/ready.
func WithReadinessCheck(checks ...health.Check) AppOption {
	return func(app *App) error {
		app.checks = append(app.checks, checks...)
		return nil
	}
}

// Handler returns the HTTP handler of the site.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves the site and runs the background workers until ctx is done.
func (a *App) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return a.server.Run(ctx, a.router)
	})
	for _, w := range a.workers {
		eg.Go(func() error {
			return w(ctx)
		})
	}

	return eg.Wait()
}

func (a *App) cleanupSessions(ctx context.Context) error {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := a.sessions.CleanupExpired(ctx)
			if err != nil {
				a.logger.WarnContext(ctx, "session cleanup failed", logger.Component("session"), logger.Error(err))
				continue
			}
			if n > 0 {
				a.logger.DebugContext(ctx, "expired sessions removed", logger.Component("session"), slog.Int64("count", n))
			}
		}
	}
}

// auth returns the auth service bound to the credentials of the request.
func (a *App) auth(ctx *Context) *auth.Service {
	return auth.NewService(a.api, ctx.Tokens(), auth.WithLogger(a.logger.With(logger.Component("auth"))))
}

func languages() []string {
	out := make([]string, len(settings.Languages))
	for i, l := range settings.Languages {
		out[i] = string(l)
	}
	return out
}
