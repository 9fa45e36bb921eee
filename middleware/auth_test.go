package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/token"
	"github.com/dmitrymomot/cafe/middleware"
)

func withTokens(m *token.Manager) handler.Middleware[ctx] {
	return func(next handler.HandlerFunc[ctx]) handler.HandlerFunc[ctx] {
		return func(c ctx) handler.Response {
			c.SetValue(token.ContextKey{}, m)
			return next(c)
		}
	}
}

func newTokenManager(t *testing.T) *token.Manager {
	t.Helper()
	client, err := apiclient.New("http://127.0.0.1:1/api/")
	require.NoError(t, err)
	return token.NewManager(client, apiclient.NewJar(nil), token.NewMemoryStorage(), token.NewMemoryStorage())
}

func TestAuthGuard(t *testing.T) {
	t.Parallel()

	t.Run("no credential manager", func(t *testing.T) {
		r := newRouter(middleware.AuthGuard[ctx]())
		r.Get("/page", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/page?tab=menu", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login?returnUrl=%2Fpage%3Ftab%3Dmenu", w.Header().Get("Location"))
	})

	t.Run("not signed in", func(t *testing.T) {
		r := newRouter(withTokens(newTokenManager(t)), middleware.AuthGuard[ctx]())
		r.Get("/page", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/page", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login?returnUrl=%2Fpage", w.Header().Get("Location"))
	})

	t.Run("signed in", func(t *testing.T) {
		m := newTokenManager(t)
		m.SetTokens("opaque-access", "refresh")

		r := newRouter(withTokens(m), middleware.AuthGuard[ctx]())
		r.Get("/page", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/page", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom login url", func(t *testing.T) {
		r := newRouter(middleware.AuthGuardWithConfig[ctx](middleware.AuthGuardConfig{LoginURL: "/signin"}))
		r.Get("/page", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodGet, "/page", nil))
		assert.Equal(t, "/signin?returnUrl=%2Fpage", w.Header().Get("Location"))
	})
}

func TestSafeReturnURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"/page", "/page"},
		{"/page?tab=orders", "/page?tab=orders"},
		{"", "/fallback"},
		{"page", "/fallback"},
		{"//evil.example", "/fallback"},
		{"/\\evil.example", "/fallback"},
		{"https://evil.example/page", "/fallback"},
		{"/page\r\nSet-Cookie: x=1", "/fallback"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, middleware.SafeReturnURL(tt.raw, "/fallback"), tt.raw)
	}

	assert.Equal(t, "/auth/login", middleware.LoginRedirectURL("/auth/login", "//evil.example"))
}
