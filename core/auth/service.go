package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/token"
)

const (
	loginEndpoint       = "auth/login"
	registerEndpoint    = "auth/register"
	verifyPhoneEndpoint = "auth/verify-phone"
	resendOTPEndpoint   = "auth/resend-otp"
	logoutEndpoint      = "auth/logout"
	profileEndpoint     = "profile"
)

// LoginData is the login request body. Entity is the phone number.
type LoginData struct {
	Entity         string `json:"entity"`
	Password       string `json:"password"`
	RememberMe     bool   `json:"rememberMe"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// RegisterData is the sign-up request body. City and Province are ids.
type RegisterData struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Province string `json:"province"`
	Password string `json:"password"`
}

// VerifyData confirms a phone number with the OTP sent to it.
type VerifyData struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// ResendData requests a new OTP.
type ResendData struct {
	Phone string `json:"phone"`
}

// Profile is the signed-in user as returned by GET profile.
// Fields the site does not render are kept in Extra.
type Profile struct {
	ID       string         `json:"id"`
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	City     string         `json:"city"`
	Province string         `json:"province"`
	Extra    map[string]any `json:"-"`
}

// Service performs authentication calls for one browser session.
type Service struct {
	client *apiclient.Client
	tokens *token.Manager
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service bound to the session's credentials.
func NewService(client *apiclient.Client, tokens *token.Manager, opts ...Option) *Service {
	s := &Service{
		client: client,
		tokens: tokens,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokens returns the credential manager.
func (s *Service) Tokens() *token.Manager {
	return s.tokens
}

// Login signs in and stores the returned tokens.
func (s *Service) Login(ctx context.Context, data LoginData) (token.Pair, error) {
	var pair token.Pair
	if err := s.post(ctx, loginEndpoint, data, &pair); err != nil {
		s.logger.InfoContext(ctx, "login failed", logger.UpstreamStatus(apiclient.StatusOf(err)), logger.Error(err))
		return token.Pair{}, err
	}
	if err := s.store(pair); err != nil {
		return token.Pair{}, err
	}
	return pair, nil
}

// Register creates an account. The upstream then sends an OTP to the phone.
func (s *Service) Register(ctx context.Context, data RegisterData) error {
	if err := s.post(ctx, registerEndpoint, data, nil); err != nil {
		s.logger.InfoContext(ctx, "registration failed", logger.UpstreamStatus(apiclient.StatusOf(err)), logger.Error(err))
		return err
	}
	return nil
}

// VerifyPhone confirms the OTP and stores the returned tokens.
func (s *Service) VerifyPhone(ctx context.Context, data VerifyData) (token.Pair, error) {
	var pair token.Pair
	if err := s.post(ctx, verifyPhoneEndpoint, data, &pair); err != nil {
		s.logger.InfoContext(ctx, "phone verification failed", logger.UpstreamStatus(apiclient.StatusOf(err)), logger.Error(err))
		return token.Pair{}, err
	}
	if err := s.store(pair); err != nil {
		return token.Pair{}, err
	}
	return pair, nil
}

// ResendOTP asks the upstream to send a new OTP.
func (s *Service) ResendOTP(ctx context.Context, data ResendData) error {
	return s.post(ctx, resendOTPEndpoint, data, nil)
}

// Refresh exchanges the refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	return s.tokens.Refresh(ctx)
}

// Logout ends the upstream session. Tokens and CSRF state are cleared even
// when the upstream call fails; that failure is returned wrapped in
// ErrLogoutFailed.
func (s *Service) Logout(ctx context.Context) error {
	err := s.post(ctx, logoutEndpoint, struct{}{}, nil)

	s.tokens.Clear()
	s.tokens.Reset()

	if err != nil {
		s.logger.WarnContext(ctx, "upstream logout failed", logger.Error(err))
		return errors.Join(ErrLogoutFailed, err)
	}
	return nil
}

// Profile loads the signed-in user.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	var raw map[string]any
	err := s.tokens.WithCSRFToken(ctx, func(csrf string) error {
		return s.client.Get(ctx, profileEndpoint, &raw,
			apiclient.WithJar(s.tokens.Jar()),
			apiclient.WithHeader(token.CSRFHeader, csrf),
		)
	})
	if err != nil {
		return Profile{}, err
	}
	return newProfile(raw), nil
}

func (s *Service) post(ctx context.Context, endpoint string, body, dst any) error {
	return s.tokens.WithCSRFToken(ctx, func(csrf string) error {
		return s.client.Post(ctx, endpoint, body, dst,
			apiclient.WithJar(s.tokens.Jar()),
			apiclient.WithHeader(token.CSRFHeader, csrf),
		)
	})
}

func (s *Service) store(pair token.Pair) error {
	if pair.AccessToken == "" {
		return ErrMissingTokens
	}
	s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// newProfile reads the known fields and keeps the rest. Some upstream
// responses wrap the user in a "user" or "data" object.
func newProfile(raw map[string]any) Profile {
	for _, key := range []string{"user", "data"} {
		if inner, ok := raw[key].(map[string]any); ok {
			raw = inner
			break
		}
	}

	p := Profile{Extra: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "id":
			p.ID = stringify(v)
		case "full_name":
			p.FullName = stringify(v)
		case "phone":
			p.Phone = stringify(v)
		case "city":
			p.City = stringify(v)
		case "province":
			p.Province = stringify(v)
		default:
			p.Extra[k] = v
		}
	}
	return p
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
