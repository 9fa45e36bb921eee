package cafe_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/app/cafe"
	"github.com/dmitrymomot/cafe/core/token"
)

const testSecret = "test-secret-key-32-characters!!!"

// upstream fakes the API the site talks to.
type upstream struct {
	mux       *http.ServeMux
	srv       *httptest.Server
	csrfCalls atomic.Int32
}

func newUpstream(t *testing.T, routes func(mux *http.ServeMux)) *upstream {
	t.Helper()
	u := &upstream{mux: http.NewServeMux()}

	u.mux.HandleFunc("GET /api/auth/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		u.csrfCalls.Add(1)
		http.SetCookie(w, &http.Cookie{Name: token.CSRFCookie, Value: "csrf", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]string{"csrf_token": "csrf"})
	})
	u.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if routes != nil {
		routes(u.mux)
	}

	u.srv = httptest.NewServer(u.mux)
	t.Cleanup(u.srv.Close)
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func testConfig(apiURL string) cafe.Config {
	cfg := cafe.DefaultConfig()
	cfg.API.BaseURL = apiURL
	cfg.Cookie.Secrets = testSecret
	cfg.Env = "development"
	cfg.Version = "test"
	return cfg
}

// site is the app served over HTTP with a browser-like client.
type site struct {
	srv    *httptest.Server
	client *http.Client
}

func newSite(t *testing.T, u *upstream, mutate ...func(*cafe.Config)) *site {
	t.Helper()

	cfg := testConfig(u.srv.URL + "/api/")
	for _, m := range mutate {
		m(&cfg)
	}

	app, err := cafe.NewApp(cafe.WithConfig(cfg), cafe.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	return &site{srv: srv, client: newBrowser(t)}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// response is a fully read reply.
type response struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    string
}

func (s *site) do(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var b strings.Builder
	_, err = io.Copy(&b, resp.Body)
	require.NoError(t, err)

	return response{status: resp.StatusCode, header: resp.Header, cookies: resp.Cookies(), body: b.String()}
}

func (s *site) get(t *testing.T, path string) response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+path, nil)
	require.NoError(t, err)
	return s.do(t, req)
}

func (s *site) post(t *testing.T, path string, form url.Values) response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// loginRoutes accepts any credentials and serves a profile for the bearer
// token "a1".
func loginRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, token.Pair{AccessToken: "a1", RefreshToken: "r1"})
	})
	profileRoute(mux)
}

func profileRoute(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a1" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "full_name": "Sara Ahmadi", "phone": "09123456789"})
	})
}
