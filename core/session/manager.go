package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Manager handles session lifecycle including creation, retrieval, and expiration.
// The touchInterval determines how often sessions are automatically extended on access,
// reducing write operations to the store.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a session manager backed by store.
func NewManager[Data any](store Store[Data], opts ...Option) *Manager[Data] {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[Data]{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}
}

// NewFromConfig creates a session manager from configuration.
func NewFromConfig[Data any](store Store[Data], cfg Config, opts ...Option) *Manager[Data] {
	return NewManager(store, append([]Option{WithTTL(cfg.TTL), WithTouchInterval(cfg.TouchInterval)}, opts...)...)
}

// New creates a fresh unsaved session.
func (m *Manager[Data]) New(_ context.Context, params NewSessionParams) (Session[Data], error) {
	return New[Data](params, m.ttl)
}

// GetByToken retrieves a session by token and validates expiration.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}
	return *sess, nil
}

// Store handles all session persistence based on session state: deleted
// sessions are removed, modified ones are saved, and idle ones are touched.
func (m *Manager[Data]) Store(ctx context.Context, sess *Session[Data]) error {
	if sess.IsDeleted() {
		return m.Delete(ctx, sess.ID)
	}

	sess.Touch(m.ttl, m.touchInterval)

	if sess.IsModified() {
		if err := m.store.Save(ctx, sess); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
		sess.isModified = false
	}
	return nil
}

// Delete removes a session from the store. Missing sessions are not an error.
func (m *Manager[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// CleanupExpired removes all expired sessions from the store.
// Should be called periodically when the store has no native expiry.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live duration.
func (m *Manager[Data]) TTL() time.Duration {
	return m.ttl
}
