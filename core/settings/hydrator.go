package settings

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/logger"
)

const (
	// CookieName holds the preferences.
	CookieName = "app-settings"
	// LegacyCookieName was used by earlier releases.
	LegacyCookieName = "settings"
	// ThemeCookieName and LanguageCookieName are single-value overrides
	// honored during the server pass.
	ThemeCookieName    = "user-theme"
	LanguageCookieName = "user-language"

	// ColorSchemeHint is the client hint carrying the system color scheme.
	ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

	cookieLifetime = 365 * 24 * time.Hour
)

// Platform tells the Hydrator which pass it serves.
type Platform int

const (
	// PlatformServer is the page render. It never writes cookies.
	PlatformServer Platform = iota
	// PlatformBrowser is an interaction posted from a rendered page.
	PlatformBrowser
)

func (p Platform) String() string {
	if p == PlatformBrowser {
		return "browser"
	}
	return "server"
}

// Hydrator resolves and persists Settings for one request.
type Hydrator struct {
	w        http.ResponseWriter
	r        *http.Request
	cookies  *cookie.Manager
	platform Platform
	state    *TransferState
	logger   *slog.Logger
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithPlatform sets the pass. The default is PlatformServer.
func WithPlatform(p Platform) Option {
	return func(h *Hydrator) {
		h.platform = p
	}
}

// WithTransferState sets the document read and written by GetSettings.
func WithTransferState(ts *TransferState) Option {
	return func(h *Hydrator) {
		if ts != nil {
			h.state = ts
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hydrator) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHydrator creates a Hydrator for the request.
func NewHydrator(w http.ResponseWriter, r *http.Request, cookies *cookie.Manager, opts ...Option) *Hydrator {
	h := &Hydrator{
		w:        w,
		r:        r,
		cookies:  cookies,
		platform: PlatformServer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.state == nil {
		h.state = NewTransferState()
	}
	return h
}

// Platform returns the pass this Hydrator serves.
func (h *Hydrator) Platform() Platform {
	return h.platform
}

// TransferState returns the document to embed in the page.
func (h *Hydrator) TransferState() *TransferState {
	return h.state
}

// GetSettings resolves the preferences. On the server pass the result is
// stored in the transfer state.
func (h *Hydrator) GetSettings() Settings {
	var s Settings
	if h.state.Get(StateKey, &s) && s.Validate() == nil {
		return s
	}

	s = h.resolve()
	if h.platform == PlatformServer {
		if err := h.state.Set(StateKey, s); err != nil {
			h.logger.Error("failed to store settings in transfer state", logger.Error(err))
		}
	}
	return s
}

func (h *Hydrator) resolve() Settings {
	raw, ok := h.readCookie()
	if !ok {
		s := Settings{Theme: h.systemTheme(), Language: DefaultLanguage}
		return h.applyOverrides(s)
	}

	saved, err := Parse(raw)
	if err != nil {
		h.logger.Debug("ignoring malformed settings cookie", logger.Error(err))
		return h.applyOverrides(Settings{Theme: h.systemTheme(), Language: DefaultLanguage})
	}

	s := Settings{Theme: saved.Theme, Language: saved.Language}
	if s.Theme == "" {
		s.Theme = h.systemTheme()
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	return h.applyOverrides(s)
}

// readCookie scans the raw Cookie header: older clients stored unescaped
// JSON, which net/http drops because of the quotes.
func (h *Hydrator) readCookie() (string, bool) {
	for _, name := range []string{CookieName, LegacyCookieName} {
		if v, ok := rawCookie(h.r, name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// rawCookie returns the first value of the named cookie as sent, without
// the value validation of http.Request.Cookie.
func rawCookie(r *http.Request, name string) (string, bool) {
	for _, line := range r.Header.Values("Cookie") {
		for part := range strings.SplitSeq(line, ";") {
			k, v, found := strings.Cut(strings.TrimSpace(part), "=")
			if found && k == name {
				return strings.TrimSpace(v), true
			}
		}
	}
	return "", false
}

// applyOverrides honors the single-value cookies on the server pass.
func (h *Hydrator) applyOverrides(s Settings) Settings {
	if h.platform != PlatformServer {
		return s
	}
	if c, err := h.r.Cookie(LanguageCookieName); err == nil {
		if l, ok := ParseLanguage(c.Value); ok {
			s.Language = l
		}
	}
	if c, err := h.r.Cookie(ThemeCookieName); err == nil {
		s = s.WithTheme(Theme(strings.TrimSpace(c.Value)))
	}
	return s
}

// systemTheme reads the color-scheme client hint, defaulting to light.
func (h *Hydrator) systemTheme() Theme {
	return SystemTheme(h.r)
}

// SystemTheme returns the theme announced by the Sec-CH-Prefers-Color-Scheme
// hint, or DefaultTheme.
func SystemTheme(r *http.Request) Theme {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(ColorSchemeHint)), `"`)
	if Theme(strings.ToLower(v)) == ThemeDark {
		return ThemeDark
	}
	return DefaultTheme
}

// SaveSettings writes the preferences cookie and updates the transfer
// state. It does nothing on the server pass.
func (h *Hydrator) SaveSettings(s Settings) error {
	if h.platform != PlatformBrowser {
		h.logger.Debug("save settings ignored on server pass")
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}

	value, err := s.Encode()
	if err != nil {
		return err
	}
	if err := h.cookies.Set(h.w, CookieName, value,
		cookie.WithPath("/"),
		cookie.WithMaxAge(int(cookieLifetime/time.Second)),
		cookie.WithSecure(true),
		cookie.WithHTTPOnly(false),
		cookie.WithSameSite(http.SameSiteLaxMode),
	); err != nil {
		return err
	}
	return h.state.Set(StateKey, s)
}
