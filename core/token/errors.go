package token

import "errors"

var (
	// ErrCSRFUnavailable is returned when no CSRF token could be obtained in
	// the current invalidation cycle.
	ErrCSRFUnavailable = errors.New("token: CSRF token not available")
	// ErrNotAuthenticated is returned by AutoLogin when no usable credentials remain.
	ErrNotAuthenticated = errors.New("token: not authenticated")
	// ErrNoRefreshToken is returned by Refresh when no refresh token is stored.
	ErrNoRefreshToken = errors.New("token: no refresh token available")
)
