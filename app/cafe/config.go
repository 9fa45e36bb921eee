package cafe

import (
	"time"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/server"
	"github.com/dmitrymomot/cafe/core/session"
	"github.com/dmitrymomot/cafe/core/sessiontransport"
	"github.com/dmitrymomot/cafe/integration/database/redis"
	"github.com/dmitrymomot/cafe/pkg/ratelimiter"
)

type Config struct {
	Server    server.Config
	API       apiclient.Config
	Cookie    cookie.Config
	Session   session.Config
	Transport sessiontransport.CookieConfig
	Log       logger.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config

	Version          string `env:"APP_VERSION" envDefault:"dev"`
	Env              string `env:"APP_ENV" envDefault:"production"`
	RecaptchaSiteKey string `env:"RECAPTCHA_SITE_KEY"`

	// RefreshCookie holds the encrypted refresh token.
	RefreshCookie    string        `env:"REFRESH_COOKIE_NAME" envDefault:"cafe_refresh"`
	RefreshCookieTTL time.Duration `env:"REFRESH_COOKIE_TTL" envDefault:"720h"`
}

// DefaultConfig returns the configuration the environment defaults produce.
// API.BaseURL and Cookie.Secrets have no default.
func DefaultConfig() Config {
	return Config{
		Server:    server.DefaultConfig(),
		API:       apiclient.Config{Timeout: 15 * time.Second},
		Cookie:    cookie.DefaultConfig(),
		Session:   session.DefaultConfig(),
		Transport: sessiontransport.DefaultCookieConfig(),
		Log:       logger.Config{Level: "info", Format: "json", App: "cafe"},
		Redis:     redis.Config{KeyPrefix: "cafe:"},
		RateLimit: ratelimiter.Config{Capacity: 10, RefillRate: 1, RefillInterval: 6 * time.Second},

		Version:          "dev",
		Env:              "production",
		RefreshCookie:    "cafe_refresh",
		RefreshCookieTTL: 30 * 24 * time.Hour,
	}
}

// IsDevelopment reports whether the site runs locally over plain HTTP.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
