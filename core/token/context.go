package token

import "context"

// ContextKey is the key a *Manager is stored under. Request contexts that
// only expose SetValue(key, val) use it directly.
type ContextKey struct{}

// WithManager stores m in ctx.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ContextKey{}, m)
}

// FromContext returns the Manager stored in ctx, or nil.
func FromContext(ctx context.Context) *Manager {
	m, _ := ctx.Value(ContextKey{}).(*Manager)
	return m
}

// AccessTokenFromContext reads the access token of the Manager in ctx.
// It matches apiclient.TokenFunc and is meant for apiclient.Bearer.
func AccessTokenFromContext(ctx context.Context) string {
	if m := FromContext(ctx); m != nil {
		return m.AccessToken()
	}
	return ""
}
