package session

import "context"

// ContextKey is the key a *Session[Data] is stored under. Request contexts
// that only expose SetValue(key, val) use it directly.
type ContextKey struct{}

// WithSession attaches a session pointer to ctx. Handlers mutate the session
// through the pointer and the session middleware persists it afterwards.
func WithSession[Data any](ctx context.Context, sess *Session[Data]) context.Context {
	return context.WithValue(ctx, ContextKey{}, sess)
}

// FromContext returns the session attached by WithSession.
func FromContext[Data any](ctx context.Context) (*Session[Data], error) {
	sess, ok := ctx.Value(ContextKey{}).(*Session[Data])
	if !ok || sess == nil {
		return nil, ErrNoContext
	}
	return sess, nil
}
