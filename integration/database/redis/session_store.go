package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cafe/core/session"
)

// SessionStore persists sessions as JSON documents with a native TTL.
// Two keys are kept per session: the document keyed by ID and a token index
// pointing at the ID, so token rotation never loses the document.
type SessionStore[Data any] struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store. keyPrefix namespaces all keys.
func NewSessionStore[Data any](client redis.UniversalClient, keyPrefix string) *SessionStore[Data] {
	return &SessionStore[Data]{client: client, prefix: keyPrefix + "session:"}
}

func (s *SessionStore[Data]) idKey(id uuid.UUID) string {
	return s.prefix + "id:" + id.String()
}

func (s *SessionStore[Data]) tokenKey(token string) string {
	return s.prefix + "token:" + token
}

// GetByToken resolves the token index and loads the document.
func (s *SessionStore[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	rawID, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session token: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, session.ErrNotFound
	}

	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Token != token {
		// stale index entry left behind by a rotation
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore[Data]) get(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess session.Session[Data]
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save writes the document and token index with the session's remaining lifetime.
func (s *SessionStore[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	prev, err := s.get(ctx, sess.ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != nil && prev.Token != sess.Token {
			pipe.Del(ctx, s.tokenKey(prev.Token))
		}
		pipe.Set(ctx, s.idKey(sess.ID), raw, ttl)
		pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the document and its token index.
func (s *SessionStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.idKey(id), s.tokenKey(sess.Token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys natively.
func (s *SessionStore[Data]) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
