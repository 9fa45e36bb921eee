package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")
	ErrAlreadyStarted    = errors.New("ratelimiter: cleanup already started")
	ErrCleanupDisabled   = errors.New("ratelimiter: cleanup interval must be positive")
)
