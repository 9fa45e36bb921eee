package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrInvalidPort          = errors.New("server port must be between 1 and 65535")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerNotStarted     = errors.New("server has not been started")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
)
