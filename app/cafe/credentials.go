package cafe

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/session"
	"github.com/dmitrymomot/cafe/core/token"
)

// SessionData is what the site keeps per browser session.
type SessionData struct {
	AccessToken string `json:"access_token,omitempty"`
	// Upstream holds the cookies the API set for this browser, csrf_token included.
	Upstream map[string]string `json:"upstream,omitempty"`
	// RememberMe keeps the refresh token across browser restarts.
	RememberMe bool `json:"remember_me,omitempty"`
	// PendingPhone is the number waiting for OTP verification.
	PendingPhone string `json:"pending_phone,omitempty"`
}

// sessionStorage keeps the access token in the browser session.
type sessionStorage struct {
	sess *session.Session[SessionData]
}

func (s sessionStorage) Get(key string) string {
	if key == token.AccessTokenKey {
		return s.sess.Data.AccessToken
	}
	return ""
}

func (s sessionStorage) Set(key, value string) {
	if key != token.AccessTokenKey || s.sess.Data.AccessToken == value {
		return
	}
	data := s.sess.Data
	data.AccessToken = value
	s.sess.SetData(data)
}

func (s sessionStorage) Delete(key string) {
	s.Set(key, "")
}

// refreshStorage keeps the refresh token in an encrypted cookie. Changes are
// buffered and written by flush.
type refreshStorage struct {
	value string
	dirty bool
}

func loadRefreshStorage(r *http.Request, cookies *cookie.Manager, name string) *refreshStorage {
	v, err := cookies.GetEncrypted(r, name)
	if err != nil {
		v = ""
	}
	return &refreshStorage{value: v}
}

func (s *refreshStorage) Get(key string) string {
	if key == token.RefreshTokenKey {
		return s.value
	}
	return ""
}

func (s *refreshStorage) Set(key, value string) {
	if key != token.RefreshTokenKey || s.value == value {
		return
	}
	s.value = value
	s.dirty = true
}

func (s *refreshStorage) Delete(key string) {
	s.Set(key, "")
}

func (s *refreshStorage) flush(w http.ResponseWriter, cookies *cookie.Manager, name string, ttl time.Duration, persistent bool) error {
	if !s.dirty {
		return nil
	}
	if s.value == "" {
		cookies.Delete(w, name)
		return nil
	}

	opts := []cookie.Option{
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if persistent {
		opts = append(opts, cookie.WithMaxAge(int(ttl/time.Second)))
	}
	return cookies.SetEncrypted(w, name, s.value, opts...)
}

// CredentialsConfig configures the credentials middleware.
type CredentialsConfig struct {
	Client     *apiclient.Client
	Cookies    *cookie.Manager
	CookieName string
	CookieTTL  time.Duration
	Logger     *slog.Logger
}

// Credentials builds the token.Manager of the browser session and stores it
// in the request context. It must run inside the session middleware.
//
// After the handler the upstream cookie jar is written back into the session
// and the refresh cookie is updated. When the user signs in or out the
// session token is rotated.
func Credentials(cfg CredentialsConfig) handler.Middleware[*Context] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return func(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
		return func(ctx *Context) handler.Response {
			sess := ctx.Session()
			if sess == nil {
				return response.Error(response.ErrInternalServerError.WithError(session.ErrNoContext))
			}

			refresh := loadRefreshStorage(ctx.Request(), cfg.Cookies, cfg.CookieName)
			jar := apiclient.NewJar(sess.Data.Upstream)
			tokens := token.NewManager(cfg.Client, jar, sessionStorage{sess: sess}, refresh,
				token.WithLogger(cfg.Logger),
			)
			ctx.SetValue(token.ContextKey{}, tokens)

			signedIn := tokens.AccessToken() != ""
			if !signedIn && refresh.value != "" && !sess.Data.RememberMe {
				// A refresh cookie without a signed-in session outlived
				// the browser session, so it was a persistent one.
				data := sess.Data
				data.RememberMe = true
				sess.SetData(data)
			}

			resp := next(ctx)

			if jar.Dirty() {
				data := sess.Data
				data.Upstream = jar.Snapshot()
				sess.SetData(data)
			}

			if (tokens.AccessToken() != "") != signedIn {
				if err := sess.Refresh(); err != nil {
					cfg.Logger.ErrorContext(ctx, "session rotation failed", logger.Error(err))
				}
			}

			if err := refresh.flush(ctx.ResponseWriter(), cfg.Cookies, cfg.CookieName, cfg.CookieTTL, sess.Data.RememberMe); err != nil {
				cfg.Logger.ErrorContext(ctx, "refresh cookie write failed", logger.Error(err))
			}

			return resp
		}
	}
}
