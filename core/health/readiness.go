package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
)

// DefaultProbeTimeout bounds a single probe when Check.Timeout is zero.
const DefaultProbeTimeout = 2 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name    string
	Probe   func(context.Context) error
	Timeout time.Duration
}

// Readiness verifies every dependency. It answers 200 when all probes pass and
// 503 with the failing check names otherwise.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx C) handler.Response {
		st := Status{Status: "ready", Checks: make(map[string]string, len(checks))}

		for _, c := range checks {
			if err := run(ctx, c); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", c.Name),
					logger.Error(err),
				)
				st.Status = "unavailable"
				st.Checks[c.Name] = "fail"
				continue
			}
			st.Checks[c.Name] = "ok"
		}

		if st.Status != "ready" {
			return response.JSONWithStatus(st, http.StatusServiceUnavailable)
		}
		return response.JSON(st)
	}
}

func run(ctx context.Context, c Check) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Probe(probeCtx)
}
