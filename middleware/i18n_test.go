package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/i18n"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/middleware"
)

func TestI18n_FollowsSettings(t *testing.T) {
	t.Parallel()

	tr, err := i18n.New(
		i18n.WithDefaultLanguage("fa"),
		i18n.WithLanguages("fa", "en", "ar"),
		i18n.WithTranslations("fa", "app", map[string]any{"hello": "سلام"}),
		i18n.WithTranslations("en", "app", map[string]any{"hello": "Hello"}),
	)
	require.NoError(t, err)

	var greeting, lang string
	r := newRouter(middleware.Settings[ctx](newCookies(t), nil), middleware.I18n[ctx](tr, "app"))
	r.Get("/", func(c ctx) handler.Response {
		greeting = i18n.T(c, "hello")
		translator, found := middleware.GetTranslator(c)
		require.True(t, found)
		lang = translator.Language()
		return ok
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(settingsCookie(t, settings.Settings{Theme: settings.ThemeLight, Language: settings.LanguageEn}))
	serve(r, req)
	assert.Equal(t, "Hello", greeting)
	assert.Equal(t, "en", lang)

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "سلام", greeting)
}

func TestI18n_AcceptLanguageWithoutSettings(t *testing.T) {
	t.Parallel()

	tr, err := i18n.New(
		i18n.WithDefaultLanguage("fa"),
		i18n.WithLanguages("fa", "en"),
		i18n.WithTranslations("en", "app", map[string]any{"hello": "Hello"}),
	)
	require.NoError(t, err)

	var lang string
	r := newRouter(middleware.I18n[ctx](tr, "app"))
	r.Get("/", func(c ctx) handler.Response {
		lang = i18n.FromContext(c).Language()
		return ok
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	serve(r, req)
	assert.Equal(t, "en", lang)
}

func TestI18n_RequiresInstance(t *testing.T) {
	t.Parallel()

	tr, err := i18n.New(i18n.WithDefaultLanguage("fa"))
	require.NoError(t, err)

	assert.Panics(t, func() { middleware.I18n[ctx](nil, "app") })
	assert.Panics(t, func() { middleware.I18n[ctx](tr, "") })
}
