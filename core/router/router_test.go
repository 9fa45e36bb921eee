package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/router"
)

type ctx = *handler.BaseContext

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(s))
		return err
	}
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouterMethods(t *testing.T) {
	r := router.New[ctx]()
	r.Get("/auth/login", func(c ctx) handler.Response { return text("login form") })
	r.Post("/auth/login", func(c ctx) handler.Response { return text("login submit") })

	assert.Equal(t, "login form", serve(t, r, http.MethodGet, "/auth/login").Body.String())
	assert.Equal(t, "login submit", serve(t, r, http.MethodPost, "/auth/login").Body.String())

	w := serve(t, r, http.MethodDelete, "/auth/login")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = serve(t, r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterParams(t *testing.T) {
	r := router.New[ctx]()
	r.Get("/cities/{id}", func(c ctx) handler.Response { return text(c.Param("id")) })

	assert.Equal(t, "42", serve(t, r, http.MethodGet, "/cities/42").Body.String())
}

func TestRouterMiddleware(t *testing.T) {
	var order []string
	mw := func(name string) handler.Middleware[ctx] {
		return func(next handler.HandlerFunc[ctx]) handler.HandlerFunc[ctx] {
			return func(c ctx) handler.Response {
				order = append(order, name)
				return next(c)
			}
		}
	}

	r := router.New[ctx]()
	r.Use(mw("outer"))
	r.With(mw("guard")).Get("/page", func(c ctx) handler.Response { return text("page") })
	r.Get("/open", func(c ctx) handler.Response { return text("open") })

	serve(t, r, http.MethodGet, "/page")
	assert.Equal(t, []string{"outer", "guard"}, order)

	order = nil
	serve(t, r, http.MethodGet, "/open")
	assert.Equal(t, []string{"outer"}, order)
}

func TestRouterRouteAndGroup(t *testing.T) {
	r := router.New[ctx]()
	r.Route("/settings", func(sr router.Router[ctx]) {
		sr.Post("/theme", func(c ctx) handler.Response { return text("theme") })
	})
	r.Group(func(g router.Router[ctx]) {
		g.Get("/cities", func(c ctx) handler.Response { return text("cities") })
	})

	assert.Equal(t, "theme", serve(t, r, http.MethodPost, "/settings/theme").Body.String())
	assert.Equal(t, "cities", serve(t, r, http.MethodGet, "/cities").Body.String())

	routes := r.Routes()
	assert.Contains(t, routes, router.Route{Method: http.MethodPost, Pattern: "/settings/theme"})
	assert.Contains(t, routes, router.Route{Method: http.MethodGet, Pattern: "/cities"})
}

func TestRouterHandleHTTP(t *testing.T) {
	r := router.New[ctx]()
	r.HandleHTTP("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("file:" + r.URL.Path))
	})))

	assert.Equal(t, "file:css/app.css", serve(t, r, http.MethodGet, "/static/css/app.css").Body.String())
}

func TestRouterNotFound(t *testing.T) {
	r := router.New[ctx]()
	r.NotFound(func(c ctx) handler.Response {
		return func(w http.ResponseWriter, req *http.Request) error {
			http.Redirect(w, req, "/auth/login", http.StatusFound)
			return nil
		}
	})

	w := serve(t, r, http.MethodGet, "/whatever")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestRouterErrors(t *testing.T) {
	var handled error
	r := router.New(router.WithErrorHandler(func(c ctx, err error) {
		handled = err
		c.ResponseWriter().WriteHeader(http.StatusTeapot)
	}))

	r.Get("/fail", func(c ctx) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return errors.New("boom") }
	})
	r.Get("/nil", func(c ctx) handler.Response { return nil })
	r.Get("/panic", func(c ctx) handler.Response { panic("kaboom") })

	t.Run("response error", func(t *testing.T) {
		w := serve(t, r, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.EqualError(t, handled, "boom")
	})

	t.Run("nil response", func(t *testing.T) {
		serve(t, r, http.MethodGet, "/nil")
		assert.ErrorIs(t, handled, router.ErrNilResponse)
	})

	t.Run("panic", func(t *testing.T) {
		serve(t, r, http.MethodGet, "/panic")
		var pe router.PanicError
		require.ErrorAs(t, handled, &pe)
		assert.Equal(t, "kaboom", pe.Value())
		assert.True(t, strings.Contains(string(pe.Stack()), "goroutine"))
	})
}

type appContext struct {
	*handler.BaseContext
	tag string
}

func TestRouterContextFactory(t *testing.T) {
	r := router.New(router.WithContextFactory(func(w http.ResponseWriter, req *http.Request) *appContext {
		return &appContext{BaseContext: handler.NewBaseContext(w, req), tag: "cafe"}
	}))
	r.Get("/", func(c *appContext) handler.Response { return text(c.tag) })

	assert.Equal(t, "cafe", serve(t, r, http.MethodGet, "/").Body.String())
}

func TestRouterRequiresFactoryForCustomContext(t *testing.T) {
	r := router.New[*appContext]()
	r.Get("/", func(c *appContext) handler.Response { return text("x") })

	assert.PanicsWithValue(t, router.ErrNoContextFactory, func() {
		serve(t, r, http.MethodGet, "/")
	})
}
