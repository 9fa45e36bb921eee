package middleware

import (
	"log/slog"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/session"
)

// SessionTransport loads and persists sessions for a request.
// sessiontransport.Cookie implements it.
type SessionTransport[Data any] interface {
	Load(ctx handler.Context) (session.Session[Data], error)
	Save(ctx handler.Context, sess *session.Session[Data]) error
}

// SessionConfig configures the session middleware.
type SessionConfig[Data any] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Transport is required
	Transport SessionTransport[Data]
	// Logger receives load and save failures
	Logger *slog.Logger
}

// Session loads the browser session before the handler and saves it after.
func Session[C handler.Context, Data any](transport SessionTransport[Data], log *slog.Logger) handler.Middleware[C] {
	return SessionWithConfig[C](SessionConfig[Data]{Transport: transport, Logger: log})
}

// SessionWithConfig attaches a *session.Session[Data] to the request context
// (read it with session.FromContext). Handlers mutate it in place; it is
// saved once the handler returns and before the response is written, so the
// session cookie goes out with the response headers.
func SessionWithConfig[C handler.Context, Data any](cfg SessionConfig[Data]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "session load failed", logger.Error(err))
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			ctx.SetValue(session.ContextKey{}, &sess)

			resp := next(ctx)

			if err := cfg.Transport.Save(ctx, &sess); err != nil {
				cfg.Logger.ErrorContext(ctx, "session save failed", logger.Error(err), logger.SessionID(sess.ID.String()))
				return response.Error(response.ErrInternalServerError.WithError(err))
			}
			return resp
		}
	}
}
