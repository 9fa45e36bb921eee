package token_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/token"
)

type fixture struct {
	manager    *token.Manager
	jar        *apiclient.Jar
	session    *token.MemoryStorage
	persistent *token.MemoryStorage
	csrfCalls  atomic.Int32
}

func newFixture(t *testing.T, mux *http.ServeMux) *fixture {
	t.Helper()
	f := &fixture{
		jar:        apiclient.NewJar(nil),
		session:    token.NewMemoryStorage(),
		persistent: token.NewMemoryStorage(),
	}

	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.HandleFunc("GET /api/auth/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		n := f.csrfCalls.Add(1)
		value := "csrf-" + string(rune('0'+n))
		http.SetCookie(w, &http.Cookie{Name: token.CSRFCookie, Value: value, Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"csrf_token": value})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL + "/api/")
	require.NoError(t, err)

	f.manager = token.NewManager(client, f.jar, f.session, f.persistent)
	return f
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return tok
}

func TestEnsureCSRFToken(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches once and caches", func(t *testing.T) {
		f := newFixture(t, nil)

		csrf, err := f.manager.EnsureCSRFToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "csrf-1", csrf)

		csrf, err = f.manager.EnsureCSRFToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "csrf-1", csrf)
		assert.Equal(t, int32(1), f.csrfCalls.Load())

		v, ok := f.jar.Get(token.CSRFCookie)
		require.True(t, ok)
		assert.Equal(t, "csrf-1", v)
	})

	t.Run("uses cookie before fetching", func(t *testing.T) {
		f := newFixture(t, nil)
		f.jar.SetCookies(nil, []*http.Cookie{{Name: token.CSRFCookie, Value: "from-cookie"}})

		csrf, err := f.manager.EnsureCSRFToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", csrf)
		assert.Equal(t, int32(0), f.csrfCalls.Load())
	})

	t.Run("unavailable after failed fetch in same cycle", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client, err := apiclient.New(srv.URL + "/api/")
		require.NoError(t, err)
		m := token.NewManager(client, apiclient.NewJar(nil), token.NewMemoryStorage(), token.NewMemoryStorage())

		_, err = m.EnsureCSRFToken(ctx)
		assert.ErrorIs(t, err, token.ErrCSRFUnavailable)
		assert.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))

		_, err = m.EnsureCSRFToken(ctx)
		assert.ErrorIs(t, err, token.ErrCSRFUnavailable)
		assert.Equal(t, 0, apiclient.StatusOf(err), "no second fetch")
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.manager.EnsureCSRFToken(ctx)
	require.NoError(t, err)

	f.manager.Reset()
	_, ok := f.jar.Get(token.CSRFCookie)
	assert.False(t, ok)

	csrf, err := f.manager.EnsureCSRFToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "csrf-2", csrf)
}

func TestWithCSRFToken(t *testing.T) {
	ctx := context.Background()

	t.Run("retries once on 419", func(t *testing.T) {
		f := newFixture(t, nil)

		var seen []string
		err := f.manager.WithCSRFToken(ctx, func(csrf string) error {
			seen = append(seen, csrf)
			if len(seen) == 1 {
				return &apiclient.Error{Status: 419, Message: "CSRF token mismatch"}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"csrf-1", "csrf-2"}, seen)
	})

	t.Run("second 403 propagates", func(t *testing.T) {
		f := newFixture(t, nil)

		calls := 0
		err := f.manager.WithCSRFToken(ctx, func(string) error {
			calls++
			return &apiclient.Error{Status: http.StatusForbidden}
		})
		assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		f := newFixture(t, nil)

		calls := 0
		err := f.manager.WithCSRFToken(ctx, func(string) error {
			calls++
			return &apiclient.Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
		})
		assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
		assert.Equal(t, 1, calls)
	})
}

func TestTokens(t *testing.T) {
	f := newFixture(t, nil)

	f.manager.SetTokens("access", "refresh")
	assert.Equal(t, "access", f.manager.AccessToken())
	assert.Equal(t, "refresh", f.manager.RefreshToken())

	f.manager.SetTokens("access-2", "")
	assert.Equal(t, "refresh", f.manager.RefreshToken())

	f.manager.Clear()
	assert.Empty(t, f.manager.AccessToken())
	assert.Empty(t, f.manager.RefreshToken())
}

func TestAutoLogin(t *testing.T) {
	ctx := context.Background()

	refreshMux := func(status int, refreshed *atomic.Int32) *http.ServeMux {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshed.Add(1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if status != http.StatusOK || body["refresh_token"] != "refresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid refresh token"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(token.Pair{AccessToken: "new-access", RefreshToken: "new-refresh"})
		})
		return mux
	}

	t.Run("valid access token", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusOK, &refreshed))
		access := signed(t, time.Now().Add(time.Hour))
		f.manager.SetTokens(access, "refresh")

		got, err := f.manager.AutoLogin(ctx)
		require.NoError(t, err)
		assert.Equal(t, access, got)
		assert.Equal(t, int32(0), refreshed.Load())
	})

	t.Run("opaque access token counts as valid", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusOK, &refreshed))
		f.manager.SetTokens("opaque", "")

		got, err := f.manager.AutoLogin(ctx)
		require.NoError(t, err)
		assert.Equal(t, "opaque", got)
	})

	t.Run("expired access token is refreshed", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusOK, &refreshed))
		f.manager.SetTokens(signed(t, time.Now().Add(-time.Minute)), "refresh")

		got, err := f.manager.AutoLogin(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new-access", got)
		assert.Equal(t, "new-refresh", f.manager.RefreshToken())
		assert.Equal(t, int32(1), refreshed.Load())
	})

	t.Run("missing access token is refreshed", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusOK, &refreshed))
		f.persistent.Set(token.RefreshTokenKey, "refresh")

		got, err := f.manager.AutoLogin(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new-access", got)
	})

	t.Run("failed refresh clears credentials", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusUnauthorized, &refreshed))
		f.manager.SetTokens(signed(t, time.Now().Add(-time.Minute)), "refresh")

		_, err := f.manager.AutoLogin(ctx)
		assert.ErrorIs(t, err, token.ErrNotAuthenticated)
		assert.Empty(t, f.manager.AccessToken())
		assert.Empty(t, f.manager.RefreshToken())
	})

	t.Run("no credentials", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.manager.AutoLogin(ctx)
		assert.ErrorIs(t, err, token.ErrNotAuthenticated)

		_, err = f.manager.Refresh(ctx)
		assert.ErrorIs(t, err, token.ErrNoRefreshToken)
	})

	t.Run("leeway", func(t *testing.T) {
		var refreshed atomic.Int32
		f := newFixture(t, refreshMux(http.StatusOK, &refreshed))
		now := time.Now()
		f.manager = token.NewManager(nil, f.jar, f.session, f.persistent,
			token.WithClock(func() time.Time { return now }),
			token.WithLeeway(time.Minute),
		)
		f.manager.SetTokens(signed(t, now.Add(2*time.Minute)), "")

		_, err := f.manager.AutoLogin(ctx)
		assert.NoError(t, err)
	})
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, token.FromContext(ctx))
	assert.Empty(t, token.AccessTokenFromContext(ctx))

	f := newFixture(t, nil)
	f.manager.SetTokens("access", "refresh")

	ctx = token.WithManager(ctx, f.manager)
	assert.Same(t, f.manager, token.FromContext(ctx))
	assert.Equal(t, "access", token.AccessTokenFromContext(ctx))
}
