package sessiontransport

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/session"
	"github.com/dmitrymomot/cafe/pkg/clientip"
)

// Cookie provides HTTP cookie-based session transport.
// It stores Session.Token as the cookie value (signed via cookie.Manager).
type Cookie[Data any] struct {
	manager   *session.Manager[Data]
	cookieMgr *cookie.Manager
	name      string
}

// NewCookie creates a new cookie-based session transport.
func NewCookie[Data any](mgr *session.Manager[Data], cookieMgr *cookie.Manager, name string) *Cookie[Data] {
	return &Cookie[Data]{
		manager:   mgr,
		cookieMgr: cookieMgr,
		name:      name,
	}
}

// Load session from cookie. Creates a new session if the cookie is missing,
// tampered with, or points at an unknown or expired session.
// This provides graceful degradation: it always returns a usable session.
func (c *Cookie[Data]) Load(ctx handler.Context) (session.Session[Data], error) {
	r := ctx.Request()

	token, err := c.cookieMgr.GetSigned(r, c.name)
	if err == nil {
		if sess, err := c.manager.GetByToken(ctx, token); err == nil {
			return sess, nil
		}
	}

	return c.manager.New(ctx, session.NewSessionParams{
		IP:        clientip.GetIP(r),
		UserAgent: r.UserAgent(),
	})
}

// Save persists the session and keeps the cookie in sync with it.
// Deleted sessions also remove the cookie.
func (c *Cookie[Data]) Save(ctx handler.Context, sess *session.Session[Data]) error {
	if sess.IsDeleted() {
		if err := c.manager.Store(ctx, sess); err != nil {
			return err
		}
		c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
		return nil
	}

	if err := c.manager.Store(ctx, sess); err != nil {
		return err
	}

	until := time.Until(sess.ExpiresAt)
	if until <= 0 {
		return ErrExpiredSession
	}

	return c.cookieMgr.SetSigned(ctx.ResponseWriter(), c.name, sess.Token,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(int(until.Seconds())),
	)
}
