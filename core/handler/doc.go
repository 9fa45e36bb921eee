// Package handler provides the types used for HTTP request processing:
// handlers that return lazily rendered responses, a request context interface,
// and composable middleware.
//
//	// Response function renders HTTP responses
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Type-safe handler with custom context
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Middleware function for handler composition
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// Handlers do their work (upstream calls, session changes) in the function body
// and return a Response; middleware can wrap that Response to write headers or
// cookies before the body is rendered.
//
// Applications usually embed *BaseContext in their own context type:
//
//	type Context struct {
//		*handler.BaseContext
//	}
package handler
