package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/cafe/app/cafe"
	"github.com/dmitrymomot/cafe/core/config"
	"github.com/dmitrymomot/cafe/core/health"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/integration/database/redis"
	"github.com/dmitrymomot/cafe/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg cafe.Config
	config.MustLoad(&cfg) // panic on error

	log := logger.NewFromConfig(cfg.Log,
		logger.WithAttr(logger.Version(cfg.Version)),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	opts := []cafe.AppOption{cafe.WithConfig(cfg), cafe.WithLogger(log)}

	// Sessions and rate limits stay in memory unless Redis is configured
	if cfg.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("Failed to connect to redis", logger.Component("redis"), logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()

		opts = append(opts,
			cafe.WithSessionStore(redis.NewSessionStore[cafe.SessionData](client, cfg.Redis.KeyPrefix+"session:")),
			cafe.WithRateLimitStore(redis.NewRateLimitStore(client, cfg.Redis.KeyPrefix+"ratelimit:")),
			cafe.WithReadinessCheck(health.Check{Name: "redis", Probe: redis.Healthcheck(client)}),
		)
	}

	app, err := cafe.NewApp(opts...)
	if err != nil {
		log.Error("Failed to initialize app", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("Server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Server stopped")
}
