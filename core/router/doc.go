// Package router adapts gorilla/mux to the typed handler model of
// core/handler. Handlers receive an application-defined context, return a
// handler.Response, and report failures through a single error handler.
//
// # Basic Usage
//
//	r := router.New[*handler.BaseContext]()
//	r.Get("/auth/login", showLogin)
//	r.Post("/auth/login", submitLogin)
//	http.ListenAndServe(":4000", r)
//
// # Custom Context
//
// Applications with their own context type supply a factory:
//
//	r := router.New(
//		router.WithContextFactory(app.NewContext),
//		router.WithErrorHandler(app.HandleError),
//	)
//
// # Middleware
//
// Middlewares are captured when a route is registered, so Use must be called
// before the routes it should wrap. Group and With create inline groups whose
// middlewares do not leak to the parent:
//
//	r.Use(requestID, logging)
//	r.With(authGuard).Get("/page", showPage)
//
// # Prefixes and Static Files
//
// Route creates a gorilla sub-router for a path prefix. HandleHTTP mounts a
// plain http.Handler (for example http.FileServer) under a prefix.
//
// # Errors
//
// Unmatched paths reach NotFound (ErrNotFound by default), wrong methods on a
// known path produce ErrMethodNotAllowed, and panics are recovered and passed
// to the error handler as a PanicError.
package router
