package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Context defines the contract for request contexts in the framework.
// Use BaseContext for the default implementation.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// BaseContext is the default Context implementation.
// All context.Context methods delegate to the request's context, so values
// stored with SetValue are visible to anything that receives Request().
type BaseContext struct {
	w http.ResponseWriter
	r *http.Request
}

// NewBaseContext creates a context for a single request.
func NewBaseContext(w http.ResponseWriter, r *http.Request) *BaseContext {
	return &BaseContext{w: w, r: r}
}

// Deadline delegates to the request context.
func (c *BaseContext) Deadline() (time.Time, bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request context.
func (c *BaseContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request context.
func (c *BaseContext) Err() error {
	return c.r.Context().Err()
}

// Value delegates to the request context.
func (c *BaseContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the current request, including values added via SetValue.
func (c *BaseContext) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the response writer for the request.
func (c *BaseContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns a path parameter captured by the router.
func (c *BaseContext) Param(key string) string {
	return mux.Vars(c.r)[key]
}

// SetValue stores a request-scoped value.
func (c *BaseContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
