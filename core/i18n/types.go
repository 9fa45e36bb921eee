package i18n

import "errors"

// M is a convenience type for placeholder maps used in translations.
// It maps placeholder names to their values.
type M map[string]any

var (
	ErrEmptyLanguage  = errors.New("i18n: language cannot be empty")
	ErrEmptyNamespace = errors.New("i18n: namespace cannot be empty")
	ErrInvalidFile    = errors.New("i18n: invalid translation file")
)
