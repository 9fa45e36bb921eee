package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/binder"
)

type signupForm struct {
	FullName string `form:"fullName,trim"`
	Phone    string `form:"phone,trim"`
	Password string `form:"password"`
	CityID   int    `form:"cityId"`
	Terms    bool   `form:"acceptTerms"`
	Note     *string
	Internal string `form:"-"`
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	return req
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()

		req := postForm(url.Values{
			"fullName":    {"  Sara Ahmadi "},
			"phone":       {"09121234567\n"},
			"password":    {" Secret1! "},
			"cityId":      {"301"},
			"acceptTerms": {"on"},
			"note":        {"hi"},
			"Internal":    {"x"},
		})

		var in signupForm
		require.NoError(t, binder.Form()(req, &in))
		assert.Equal(t, "Sara Ahmadi", in.FullName)
		assert.Equal(t, "09121234567", in.Phone)
		assert.Equal(t, " Secret1! ", in.Password)
		assert.Equal(t, 301, in.CityID)
		assert.True(t, in.Terms)
		require.NotNil(t, in.Note)
		assert.Equal(t, "hi", *in.Note)
		assert.Empty(t, in.Internal)
	})

	t.Run("unchecked checkbox is false", func(t *testing.T) {
		t.Parallel()

		var in signupForm
		require.NoError(t, binder.Form()(postForm(url.Values{"acceptTerms": {"off"}}), &in))
		assert.False(t, in.Terms)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()

		var in signupForm
		err := binder.Form()(postForm(url.Values{"cityId": {"tehran"}}), &in)
		assert.ErrorIs(t, err, binder.ErrFailedToParseForm)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		var in signupForm
		assert.ErrorIs(t, binder.Form()(req, &in), binder.ErrUnsupportedMediaType)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))

		var in signupForm
		assert.ErrorIs(t, binder.Form()(req, &in), binder.ErrMissingContentType)
	})

	t.Run("non-struct target", func(t *testing.T) {
		t.Parallel()

		var s string
		assert.ErrorIs(t, binder.Form()(postForm(url.Values{}), &s), binder.ErrFailedToParseForm)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	var in struct {
		Term string `query:"q,trim"`
		Lang string `query:"lang"`
	}
	req := httptest.NewRequest(http.MethodGet, "/cities?q=+teh+&lang=en", nil)
	require.NoError(t, binder.Query()(req, &in))
	assert.Equal(t, "teh", in.Term)
	assert.Equal(t, "en", in.Lang)
}
