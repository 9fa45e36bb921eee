package validator

import (
	"errors"
	"strings"
)

// ErrNotStruct is returned by ValidateStruct for anything but a struct pointer.
var ErrNotStruct = errors.New("validator: must pass a pointer to struct")

// ValidationError describes one failed rule.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects failed rules in the order they were checked.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends err.
func (e *ValidationErrors) Add(err ValidationError) {
	*e = append(*e, err)
}

// IsEmpty reports whether no rule failed.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Has reports whether field failed any rule.
func (e ValidationErrors) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the first failure of field.
func (e ValidationErrors) Get(field string) (ValidationError, bool) {
	for _, err := range e {
		if err.Field == field {
			return err, true
		}
	}
	return ValidationError{}, false
}

// Keys maps every failed field to the translation key of its first failure.
func (e ValidationErrors) Keys() map[string]string {
	keys := make(map[string]string, len(e))
	for _, err := range e {
		if _, ok := keys[err.Field]; !ok {
			keys[err.Field] = err.TranslationKey
		}
	}
	return keys
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors in err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
