package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidBaseURL = errors.New("apiclient: invalid base url")
	ErrRequestFailed  = errors.New("apiclient: request failed")
	ErrDecodeResponse = errors.New("apiclient: failed to decode response")
)

// Error is returned for every non-2xx upstream response.
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
}

// StatusCode returns the upstream HTTP status.
func (e *Error) StatusCode() int {
	return e.Status
}

// AsError unwraps an upstream *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}

// newError builds an *Error, taking the message from the JSON "error" or
// "message" field of the body when present.
func newError(status int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = strings.TrimSpace(payload.Message)
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Status: status, Message: msg, Body: body}
}
