package sessiontransport

import (
	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/session"
)

// CookieConfig provides environment-based configuration for cookie-based session transport.
type CookieConfig struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"cafe_session"`
}

// DefaultCookieConfig returns a CookieConfig with sensible defaults.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		CookieName: "cafe_session",
	}
}

// NewCookieFromConfig creates a cookie-based session transport from configuration.
// The session.Manager and cookie.Manager must be provided by the caller.
func NewCookieFromConfig[Data any](cfg CookieConfig, mgr *session.Manager[Data], cookieMgr *cookie.Manager) *Cookie[Data] {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieConfig().CookieName
	}
	return NewCookie(mgr, cookieMgr, name)
}
