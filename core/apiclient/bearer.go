package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// TokenFunc returns the access token for the request context, or "".
type TokenFunc func(ctx context.Context) string

// Bearer attaches "Authorization: Bearer <token>" to API requests.
// Only paths under /api/ are considered and /auth/ endpoints are skipped.
// Nothing is added when no token is available.
func Bearer(token TokenFunc) Interceptor {
	return func(req *http.Request) error {
		path := req.URL.Path
		if !strings.Contains(path, "/api/") || strings.Contains(path, "/auth/") {
			return nil
		}
		if t := token(req.Context()); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
		return nil
	}
}
