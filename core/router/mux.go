package router

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	gmux "github.com/gorilla/mux"

	"github.com/dmitrymomot/cafe/core/handler"
)

// routeTable is shared between a router and all of its groups.
type routeTable struct {
	mu     sync.RWMutex
	routes []Route
}

func (t *routeTable) add(method, pattern string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, Route{Method: method, Pattern: pattern})
}

// mux is the private implementation of Router interface on top of gorilla/mux.
type mux[C handler.Context] struct {
	router       *gmux.Router
	root         *gmux.Router
	prefix       string
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	table        *routeTable
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	root := gmux.NewRouter()
	m := &mux[C]{
		router:       root,
		root:         root,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
		table:        &routeTable{},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the base context can be built without a factory.
			var zero C
			if _, ok := any(zero).(*handler.BaseContext); ok {
				return any(handler.NewBaseContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	root.MethodNotAllowedHandler = m.errorEndpoint(ErrMethodNotAllowed)
	root.NotFoundHandler = m.errorEndpoint(ErrNotFound)

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root.ServeHTTP(w, r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodGet)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPost)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPut)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodDelete)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPatch)
}

// Handle registers a handler for every HTTP method.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h)
}

// Method registers a handler for the given HTTP methods.
// With no methods the route matches any method.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if h == nil {
		panic(ErrNilHandler)
	}

	route := m.router.Handle(pattern, m.endpoint(h))
	if len(methods) > 0 {
		route.Methods(methods...)
	}

	full := m.prefix + pattern
	if len(methods) == 0 {
		m.table.add("*", full)
		return
	}
	for _, method := range methods {
		m.table.add(strings.ToUpper(method), full)
	}
}

// HandleHTTP mounts a standard handler under prefix.
func (m *mux[C]) HandleHTTP(prefix string, h http.Handler) {
	if h == nil {
		panic(ErrNilHandler)
	}
	m.router.PathPrefix(prefix).Handler(h)
	m.table.add("*", m.prefix+prefix+"*")
}

// NotFound replaces the default not found handler of the root router.
// Middlewares registered on this router wrap it.
func (m *mux[C]) NotFound(h handler.HandlerFunc[C]) {
	if h == nil {
		panic(ErrNilHandler)
	}
	m.root.NotFoundHandler = m.endpoint(h)
}

// Use appends middlewares. Routes registered afterwards are wrapped by them.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns an inline group that shares routes with m and adds middlewares.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	child := m.clone(m.router, m.prefix)
	child.middlewares = append(child.middlewares, middlewares...)
	return child
}

// Group creates an inline group whose middlewares do not leak into m.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	child := m.clone(m.router, m.prefix)
	if fn != nil {
		fn(child)
	}
	return child
}

// Route creates a sub-router matching a path prefix.
func (m *mux[C]) Route(prefix string, fn func(r Router[C])) Router[C] {
	sub := m.router.PathPrefix(prefix).Subrouter()
	child := m.clone(sub, m.prefix+prefix)
	if fn != nil {
		fn(child)
	}
	return child
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	m.table.mu.RLock()
	defer m.table.mu.RUnlock()
	return slices.Clone(m.table.routes)
}

func (m *mux[C]) clone(r *gmux.Router, prefix string) *mux[C] {
	return &mux[C]{
		router:       r,
		root:         m.root,
		prefix:       prefix,
		middlewares:  slices.Clone(m.middlewares),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
		table:        m.table,
	}
}

func (m *mux[C]) errorEndpoint(err error) http.Handler {
	return m.endpoint(func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return err }
	})
}

// endpoint adapts a typed handler to http.Handler. The middleware chain is
// captured at registration time.
func (m *mux[C]) endpoint(h handler.HandlerFunc[C]) http.Handler {
	fn := handler.Chain(h, m.middlewares...)
	errorHandler := m.errorHandler
	newContext := m.newContext
	logger := m.logger

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := newContext(ww, r)

		// Recover from panics to prevent server crashes
		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{value: p, stack: debug.Stack()}
				if ww.Written() {
					logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				errorHandler(ctx, panicErr)
			}
		}()

		response := fn(ctx)
		if response == nil {
			errorHandler(ctx, ErrNilResponse)
			return
		}

		// The handler may have replaced the request through SetValue.
		if err := response(ww, ctx.Request()); err != nil {
			errorHandler(ctx, err)
		}
	})
}
