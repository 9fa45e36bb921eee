package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrMissingContentType   = errors.New("binder: missing content type")
	ErrFailedToParseForm    = errors.New("binder: failed to parse form data")
	ErrFailedToParseQuery   = errors.New("binder: failed to parse query parameters")
)
