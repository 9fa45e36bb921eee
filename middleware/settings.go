package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/settings"
)

// StateField is the form field carrying the encoded transfer state back from
// a rendered page.
const StateField = "state"

type hydratorContextKey struct{}

// SettingsConfig configures the settings middleware.
type SettingsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Cookies reads and writes the preferences cookie (required)
	Cookies *cookie.Manager
	// Logger receives malformed state reports
	Logger *slog.Logger
}

// Settings resolves theme and language preferences for each request.
func Settings[C handler.Context](cookies *cookie.Manager, log *slog.Logger) handler.Middleware[C] {
	return SettingsWithConfig[C](SettingsConfig{Cookies: cookies, Logger: log})
}

// SettingsWithConfig attaches a settings.Hydrator to the request context.
//
// Safe requests (GET, HEAD) are page renders: the hydrator runs on the
// server platform with an empty transfer state that the page embeds.
// Everything else is an interaction posted from a rendered page: the
// hydrator runs on the browser platform and reuses the state posted in the
// "state" form field, and only then may it write the preferences cookie.
//
// The response asks for the Sec-CH-Prefers-Color-Scheme client hint and
// varies on it.
func SettingsWithConfig[C handler.Context](cfg SettingsConfig) handler.Middleware[C] {
	if cfg.Cookies == nil {
		panic("settings middleware: cookie manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			r := ctx.Request()
			opts := []settings.Option{settings.WithLogger(cfg.Logger)}

			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				opts = append(opts, settings.WithPlatform(settings.PlatformBrowser))
				state, err := settings.DecodeTransferState(r.PostFormValue(StateField))
				if err != nil {
					cfg.Logger.WarnContext(ctx, "discarding posted transfer state", logger.Error(err))
					state = settings.NewTransferState()
				}
				opts = append(opts, settings.WithTransferState(state))
			}

			h := ctx.ResponseWriter().Header()
			h.Set("Accept-CH", settings.ColorSchemeHint)
			h.Add("Vary", settings.ColorSchemeHint)

			hydrator := settings.NewHydrator(ctx.ResponseWriter(), r, cfg.Cookies, opts...)
			ctx.SetValue(hydratorContextKey{}, hydrator)
			// Resolve now so the server pass records the value in the state
			// before anything renders.
			hydrator.GetSettings()

			return next(ctx)
		}
	}
}

// GetHydrator returns the hydrator attached by Settings.
func GetHydrator(ctx context.Context) (*settings.Hydrator, bool) {
	h, ok := ctx.Value(hydratorContextKey{}).(*settings.Hydrator)
	return h, ok && h != nil
}

// GetSettings returns the preferences resolved for the request, or the
// defaults when the Settings middleware did not run.
func GetSettings(ctx context.Context) settings.Settings {
	if h, ok := GetHydrator(ctx); ok {
		return h.GetSettings()
	}
	return settings.Default()
}
