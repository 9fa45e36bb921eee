package settings

import "errors"

var (
	ErrInvalidTheme    = errors.New("settings: invalid theme")
	ErrInvalidLanguage = errors.New("settings: unsupported language")
	ErrMalformed       = errors.New("settings: malformed settings value")
	ErrMalformedState  = errors.New("settings: malformed transfer state")
)
