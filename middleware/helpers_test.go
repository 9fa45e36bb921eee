package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/cookie"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/router"
)

type ctx = *handler.BaseContext

const testSecret = "test-secret-key-32-characters!!!"

func newRouter(mw ...handler.Middleware[ctx]) router.Router[ctx] {
	r := router.New[ctx]()
	r.Use(mw...)
	return r
}

func ok(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("ok"))
	return err
}

func okHandler(ctx) handler.Response {
	return ok
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newCookies(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

// replay copies the cookies set by a response onto a new request.
func replay(w *httptest.ResponseRecorder, req *http.Request) *http.Request {
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}
