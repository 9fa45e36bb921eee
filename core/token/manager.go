package token

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/logger"
)

const (
	// CSRFCookie is the upstream cookie mirroring the CSRF token.
	CSRFCookie = "csrf_token"
	// CSRFHeader carries the CSRF token on mutating upstream calls.
	CSRFHeader = "X-Csrf-Token"

	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"

	csrfEndpoint    = "auth/csrf-token"
	refreshEndpoint = "auth/refresh"

	// statusCSRFExpired is the non-standard "page expired" status some
	// backends send for a stale CSRF token.
	statusCSRFExpired = 419
)

var errRefreshResponse = errors.New("refresh response without access token")

// Pair is the credential pair returned by login, verification and refresh.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager owns upstream credentials for one browser session: the CSRF token
// (memory plus the csrf_token cookie in the jar), the access token
// (session storage) and the refresh token (persistent storage).
// A Manager is built per request and is safe for concurrent use.
type Manager struct {
	client     *apiclient.Client
	jar        CookieJar
	session    Storage
	persistent Storage
	logger     *slog.Logger
	now        func() time.Time
	leeway     time.Duration

	mu          sync.Mutex
	csrfToken   string
	csrfFetched bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLeeway treats access tokens expiring within d as already expired.
func WithLeeway(d time.Duration) Option {
	return func(m *Manager) {
		m.leeway = d
	}
}

// NewManager creates a credential manager.
func NewManager(client *apiclient.Client, jar CookieJar, session, persistent Storage, opts ...Option) *Manager {
	m := &Manager{
		client:     client,
		jar:        jar,
		session:    session,
		persistent: persistent,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		leeway:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Jar returns the upstream cookie jar.
func (m *Manager) Jar() CookieJar {
	return m.jar
}

// EnsureCSRFToken returns the CSRF token from memory, then from the
// csrf_token cookie, and otherwise fetches it from the API. The fetch happens
// at most once per invalidation cycle (see Reset).
func (m *Manager) EnsureCSRFToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.csrfToken != "" {
		return m.csrfToken, nil
	}
	if v, ok := m.jar.Get(CSRFCookie); ok && v != "" {
		m.csrfToken = v
		return v, nil
	}
	if m.csrfFetched {
		return "", ErrCSRFUnavailable
	}
	m.csrfFetched = true

	var resp struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := m.client.Get(ctx, csrfEndpoint, &resp, apiclient.WithJar(m.jar)); err != nil {
		return "", errors.Join(ErrCSRFUnavailable, err)
	}

	token := resp.CSRFToken
	if token == "" {
		token, _ = m.jar.Get(CSRFCookie)
	}
	if token == "" {
		return "", ErrCSRFUnavailable
	}
	m.csrfToken = token
	return token, nil
}

// WithCSRFToken runs fn with a CSRF token. When fn fails with an upstream
// 403 or 419 the CSRF state is reset and fn is retried once with a fresh token.
func (m *Manager) WithCSRFToken(ctx context.Context, fn func(csrf string) error) error {
	csrf, err := m.EnsureCSRFToken(ctx)
	if err != nil {
		return err
	}

	err = fn(csrf)
	switch apiclient.StatusOf(err) {
	case http.StatusForbidden, statusCSRFExpired:
	default:
		return err
	}

	m.logger.DebugContext(ctx, "csrf token rejected, retrying", logger.UpstreamStatus(apiclient.StatusOf(err)))
	m.Reset()

	csrf, err = m.EnsureCSRFToken(ctx)
	if err != nil {
		return err
	}
	return fn(csrf)
}

// Reset clears the cached CSRF token, the fetch flag and the csrf_token cookie.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csrfToken = ""
	m.csrfFetched = false
	m.jar.Remove(CSRFCookie)
}

// SetTokens stores a new credential pair. An empty refresh token keeps the
// stored one.
func (m *Manager) SetTokens(access, refresh string) {
	m.session.Set(AccessTokenKey, access)
	if refresh != "" {
		m.persistent.Set(RefreshTokenKey, refresh)
	}
}

// AccessToken returns the stored access token, or "".
func (m *Manager) AccessToken() string {
	return m.session.Get(AccessTokenKey)
}

// RefreshToken returns the stored refresh token, or "".
func (m *Manager) RefreshToken() string {
	return m.persistent.Get(RefreshTokenKey)
}

// Clear removes both tokens.
func (m *Manager) Clear() {
	m.session.Delete(AccessTokenKey)
	m.persistent.Delete(RefreshTokenKey)
}

// Refresh exchanges the refresh token for a new pair. Any failure clears
// the stored credentials.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	refresh := m.RefreshToken()
	if refresh == "" {
		return "", ErrNoRefreshToken
	}

	var pair Pair
	err := m.client.Post(ctx, refreshEndpoint, map[string]string{"refresh_token": refresh}, &pair, apiclient.WithJar(m.jar))
	if err == nil && pair.AccessToken == "" {
		err = errRefreshResponse
	}
	if err != nil {
		m.Clear()
		m.logger.InfoContext(ctx, "token refresh failed", logger.Error(err))
		return "", err
	}

	m.SetTokens(pair.AccessToken, pair.RefreshToken)
	return pair.AccessToken, nil
}

// AutoLogin returns a usable access token: the stored one while it has not
// expired, otherwise a refreshed one. When neither works all credentials are
// cleared and ErrNotAuthenticated is returned.
func (m *Manager) AutoLogin(ctx context.Context) (string, error) {
	if access := m.AccessToken(); access != "" && !m.expired(access) {
		return access, nil
	}

	if m.RefreshToken() == "" {
		m.Clear()
		return "", ErrNotAuthenticated
	}

	access, err := m.Refresh(ctx)
	if err != nil {
		return "", errors.Join(ErrNotAuthenticated, err)
	}
	return access, nil
}

// expired inspects the exp claim without verifying the signature; the
// upstream API remains the authority. Tokens that are not JWTs or carry no
// exp claim are treated as valid.
func (m *Manager) expired(access string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !m.now().Add(m.leeway).Before(claims.ExpiresAt.Time)
}
