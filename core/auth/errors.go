package auth

import "errors"

var (
	// ErrMissingTokens is returned when a login or verification response
	// carries no access token.
	ErrMissingTokens = errors.New("auth: response without access token")
	// ErrLogoutFailed wraps an upstream logout failure. Local credentials are
	// cleared regardless.
	ErrLogoutFailed = errors.New("auth: upstream logout failed")
)
