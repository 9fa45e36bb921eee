// Package logger provides structured logging utilities built on Go's standard
// slog package: a configurable factory and a set of attribute helpers that keep
// log keys consistent across the application.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/cafe/core/logger"
//
//	log := logger.New(
//		logger.WithDevelopment("cafe"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("Server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// # Configuration From Environment
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
//
// # Context-Aware Logging
//
// Extractors pull request-scoped values out of the context on every record:
//
//	log := logger.New(
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return logger.RequestID(id), ok
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers return the empty slog.Attr for zero inputs, so they can be used
// without nil checks:
//
//	log.Error("Upstream call failed",
//		logger.Error(err),
//		logger.Endpoint("auth/login"),
//		logger.UpstreamStatus(429),
//	)
package logger
