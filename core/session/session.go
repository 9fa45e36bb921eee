package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session represents a browser session with generic data storage.
// The Data type parameter allows custom session data structures specific to your application.
type Session[Data any] struct {
	// ID is the stable unique session identifier that never changes during the session lifecycle
	ID uuid.UUID `json:"id"`

	// Token is the cryptographically secure session token (32 bytes base64url)
	// sent to the browser as the cookie value.
	Token string `json:"token"`

	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`

	// Data holds custom application-specific session information.
	Data Data `json:"data"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	DeletedAt time.Time `json:"deleted_at,omitzero"`

	// isModified tracks if the session needs saving
	isModified bool
}

// NewSessionParams contains parameters for creating a new session.
type NewSessionParams struct {
	IP        string
	UserAgent string
}

// New creates a new session with generated token and ID.
// The session is marked as modified and ready to be saved.
func New[Data any](params NewSessionParams, ttl time.Duration) (Session[Data], error) {
	if params.IP == "" {
		return Session[Data]{}, ErrMissingIP
	}

	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session[Data]{
		ID:         uuid.New(),
		Token:      token,
		IP:         params.IP,
		UserAgent:  params.UserAgent,
		Data:       *new(Data),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isModified: true,
	}, nil
}

// Refresh rotates the session token without changing the session ID.
// Called whenever the privilege level changes (login, logout) to prevent fixation.
func (s *Session[Data]) Refresh() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Logout marks the session for deletion by setting DeletedAt timestamp.
func (s *Session[Data]) Logout() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// SetData updates the session's custom data.
func (s *Session[Data]) SetData(data Data) {
	s.Data = data
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Touch extends the session expiration if the touch interval has elapsed.
// This reduces write operations by only updating when sufficient time has passed.
func (s *Session[Data]) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsDeleted returns true if the session is marked for deletion.
func (s Session[Data]) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified returns true if the session has been modified and needs saving.
func (s Session[Data]) IsModified() bool {
	return s.isModified
}

// IsExpired returns true if the session has expired.
func (s Session[Data]) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// generateToken creates a cryptographically secure random token using 32 bytes (256 bits)
// encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
