package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/health"
	"github.com/dmitrymomot/cafe/core/router"
)

type ctx = *handler.BaseContext

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(t *testing.T, h handler.HandlerFunc[ctx]) (*httptest.ResponseRecorder, health.Status) {
	t.Helper()

	r := router.New[ctx]()
	r.Get("/probe", h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	var st health.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return rec, st
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec, st := serve(t, health.Liveness[ctx]("1.2.3"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", st.Status)
	assert.Equal(t, "1.2.3", st.Version)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	pass := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()

		rec, st := serve(t, health.Readiness[ctx](quiet,
			health.Check{Name: "redis", Probe: pass},
			health.Check{Name: "api", Probe: pass},
		))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", st.Status)
		assert.Equal(t, map[string]string{"redis": "ok", "api": "ok"}, st.Checks)
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()

		rec, st := serve(t, health.Readiness[ctx](nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", st.Status)
	})

	t.Run("a failing check reports 503", func(t *testing.T) {
		t.Parallel()

		rec, st := serve(t, health.Readiness[ctx](quiet,
			health.Check{Name: "redis", Probe: fail},
			health.Check{Name: "api", Probe: pass},
		))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unavailable", st.Status)
		assert.Equal(t, "fail", st.Checks["redis"])
		assert.Equal(t, "ok", st.Checks["api"])
	})

	t.Run("probes are bounded by their timeout", func(t *testing.T) {
		t.Parallel()

		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}

		start := time.Now()
		rec, st := serve(t, health.Readiness[ctx](quiet,
			health.Check{Name: "api", Probe: slow, Timeout: 20 * time.Millisecond},
		))
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "fail", st.Checks["api"])
	})
}
