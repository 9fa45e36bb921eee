package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/middleware"
)

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	t.Run("rejects declared oversize body", func(t *testing.T) {
		r := newRouter(middleware.BodyLimitWithSize[ctx](8))
		r.Post("/", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("caps undeclared body", func(t *testing.T) {
		var readErr error
		r := newRouter(middleware.BodyLimitWithSize[ctx](8))
		r.Post("/", func(c ctx) handler.Response {
			_, readErr = io.ReadAll(c.Request().Body)
			return ok
		})

		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("0123456789")))
		req.ContentLength = -1
		serve(r, req)

		var maxErr *http.MaxBytesError
		assert.True(t, errors.As(readErr, &maxErr))
	})

	t.Run("allows small body", func(t *testing.T) {
		r := newRouter(middleware.BodyLimit[ctx]())
		r.Post("/", okHandler)

		w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("phone=09120000000")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("per content type limit", func(t *testing.T) {
		r := newRouter(middleware.BodyLimitWithConfig[ctx](middleware.BodyLimitConfig{
			MaxSize:          middleware.MB,
			ContentTypeLimit: map[string]int64{"application/x-www-form-urlencoded": 4},
		}))
		r.Post("/", func(ctx) handler.Response { return response.NoContent() })

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=12345"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
		w := serve(r, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
