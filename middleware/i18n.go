package middleware

import (
	"context"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/i18n"
)

// I18nConfig configures the translation middleware.
type I18nConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// I18n holds the translations (required)
	I18n *i18n.I18n
	// Namespace of the translations (required)
	Namespace string
	// LanguageExtractor picks the language. By default the resolved settings
	// decide, then Accept-Language.
	LanguageExtractor func(ctx handler.Context) string
}

// I18n attaches a translator for the request language.
func I18n[C handler.Context](tr *i18n.I18n, namespace string) handler.Middleware[C] {
	return I18nWithConfig[C](I18nConfig{I18n: tr, Namespace: namespace})
}

// I18nWithConfig stores an *i18n.Translator in the request context, where
// i18n.T and i18n.FromContext find it. Unsupported languages fall back to
// the default one.
func I18nWithConfig[C handler.Context](cfg I18nConfig) handler.Middleware[C] {
	if cfg.I18n == nil {
		panic("i18n middleware: i18n instance is required")
	}
	if cfg.Namespace == "" {
		panic("i18n middleware: namespace is required")
	}
	if cfg.LanguageExtractor == nil {
		cfg.LanguageExtractor = func(ctx handler.Context) string {
			if _, ok := GetHydrator(ctx); ok {
				return string(GetSettings(ctx).Language)
			}
			return i18n.ParseAcceptLanguage(ctx.Request().Header.Get("Accept-Language"), cfg.I18n.Languages())
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			tr := i18n.NewTranslator(cfg.I18n, cfg.LanguageExtractor(ctx), cfg.Namespace)
			ctx.SetValue(i18n.ContextKey{}, tr)
			return next(ctx)
		}
	}
}

// GetTranslator returns the translator attached by I18n.
func GetTranslator(ctx context.Context) (*i18n.Translator, bool) {
	tr := i18n.FromContext(ctx)
	return tr, tr != nil
}
