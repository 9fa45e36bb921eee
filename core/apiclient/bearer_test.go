package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/apiclient"
)

func TestBearer(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
		want  string
	}{
		{"api path", "http://host/api/profile", "tok", "Bearer tok"},
		{"auth path skipped", "http://host/api/auth/refresh", "tok", ""},
		{"non api path", "http://host/static/app.js", "tok", ""},
		{"no token", "http://host/api/profile", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intercept := apiclient.Bearer(func(context.Context) string { return tt.token })
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			require.NoError(t, intercept(req))
			assert.Equal(t, tt.want, req.Header.Get("Authorization"))
		})
	}
}

func TestJar(t *testing.T) {
	jar := apiclient.NewJar(map[string]string{"csrf_token": "a"})
	assert.False(t, jar.Dirty())
	assert.Len(t, jar.Cookies(nil), 1)

	jar.SetCookies(nil, []*http.Cookie{{Name: "csrf_token", Value: "a"}})
	assert.False(t, jar.Dirty(), "same value is not a change")

	jar.SetCookies(nil, []*http.Cookie{{Name: "csrf_token", MaxAge: -1}})
	_, ok := jar.Get("csrf_token")
	assert.False(t, ok)
	assert.True(t, jar.Dirty())

	jar.SetCookies(nil, []*http.Cookie{{Name: "x", Value: "1"}})
	assert.Equal(t, map[string]string{"x": "1"}, jar.Snapshot())

	jar.Remove("x")
	assert.Empty(t, jar.Snapshot())
}
