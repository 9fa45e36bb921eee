package cafe

import (
	"net/http"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/i18n"
	"github.com/dmitrymomot/cafe/core/session"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/core/token"
	"github.com/dmitrymomot/cafe/middleware"
)

// Context is the request context of the site.
type Context struct {
	*handler.BaseContext
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{BaseContext: handler.NewBaseContext(w, r)}
}

// Session returns the browser session, or nil outside the session middleware.
func (c *Context) Session() *session.Session[SessionData] {
	sess, err := session.FromContext[SessionData](c)
	if err != nil {
		return nil
	}
	return sess
}

// Tokens returns the credential manager of the browser session.
func (c *Context) Tokens() *token.Manager {
	return token.FromContext(c)
}

// Settings returns the resolved theme and language.
func (c *Context) Settings() settings.Settings {
	return middleware.GetSettings(c)
}

// Hydrator returns the settings hydrator of the request.
func (c *Context) Hydrator() (*settings.Hydrator, bool) {
	return middleware.GetHydrator(c)
}

// T translates key in the request language.
func (c *Context) T(key string, placeholders ...i18n.M) string {
	return i18n.T(c, key, placeholders...)
}

// FormValue returns a posted form field.
func (c *Context) FormValue(name string) string {
	return c.Request().PostFormValue(name)
}

// Query returns a query string parameter.
func (c *Context) Query(name string) string {
	return c.Request().URL.Query().Get(name)
}
