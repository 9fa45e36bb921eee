package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// Binder copies request data into the struct pointed to by v.
type Binder func(r *http.Request, v any) error

// Form binds an application/x-www-form-urlencoded body using `form` tags.
// Fields without a tag bind to their lowercased name; `form:"-"` skips them.
// The ",trim" option strips surrounding whitespace.
//
//	type loginForm struct {
//		Phone    string `form:"phone,trim"`
//		Password string `form:"password"`
//		Remember bool   `form:"rememberMe"`
//	}
func Form() Binder {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return ErrMissingContentType
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		if mediaType != "application/x-www-form-urlencoded" {
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
		}
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		return bind(v, "form", r.PostForm, ErrFailedToParseForm)
	}
}

// Query binds URL query parameters using `query` tags.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return bind(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
