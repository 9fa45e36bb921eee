package static_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/static"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"public/app.css":     {Data: []byte("body{}")},
		"public/js/app.js":   {Data: []byte("console.log(1)")},
		"public/index.html":  {Data: []byte("<p>index</p>")},
		"private/secret.txt": {Data: []byte("secret")},
	}
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestFS(t *testing.T) {
	h := static.FS(testFS(),
		static.WithSubFS("public"),
		static.WithStripPrefix("/static"),
		static.WithCacheControl("public, max-age=60"),
	)

	t.Run("serves files", func(t *testing.T) {
		rec := serve(t, h, "/static/app.css")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	})

	t.Run("nested files", func(t *testing.T) {
		rec := serve(t, h, "/static/js/app.js")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no directory listing", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/static/").Code)
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/static/js").Code)
	})

	t.Run("stays inside the sub tree", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/static/../private/secret.txt").Code)
		assert.Equal(t, http.StatusNotFound, serve(t, h, "/static/missing.js").Code)
	})
}

func TestFS_InvalidSubPath(t *testing.T) {
	assert.Panics(t, func() {
		static.FS(testFS(), static.WithSubFS("../outside"))
	})
}
