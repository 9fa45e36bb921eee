// Package token manages upstream credentials for one browser session.
//
// Three secrets are involved:
//
//   - the CSRF token, cached in memory and mirrored by the upstream
//     csrf_token cookie held in the session's cookie jar;
//   - the access token, kept in session-scoped storage;
//   - the refresh token, kept in persistent storage.
//
// EnsureCSRFToken resolves the CSRF token from memory, then the cookie, then
// a single GET auth/csrf-token per invalidation cycle. WithCSRFToken wraps a
// mutating call and retries it once with a fresh token after a 403 or 419:
//
//	err := tokens.WithCSRFToken(ctx, func(csrf string) error {
//		return client.Post(ctx, "auth/login", body, &pair,
//			apiclient.WithJar(tokens.Jar()),
//			apiclient.WithHeader(token.CSRFHeader, csrf))
//	})
//
// AutoLogin keeps a session signed in: it returns the access token while its
// JWT exp claim lies in the future (the claim is read without verification)
// and otherwise exchanges the refresh token via POST auth/refresh. Failure
// clears every stored credential.
package token
