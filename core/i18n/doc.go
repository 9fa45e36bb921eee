// Package i18n provides immutable, concurrency-safe translations with
// default-language fallback and %{name} placeholders.
//
// Translations are nested maps (usually YAML files) flattened into dot keys
// and stored under a composite "lang:namespace:key" index:
//
//	//go:embed locales/*.yaml
//	var locales embed.FS
//
//	tr, err := i18n.New(
//		i18n.WithDefaultLanguage("fa"),
//		i18n.WithFS(locales, "locales", "app"),
//	)
//
//	tr.T("en", "app", "auth.otp.invalidCode", i18n.M{"attemptsLeft": 2})
//
// A missing key falls back to the default language and then to the key
// itself; WithMissingKeyHandler reports such keys.
//
// # Request Scope
//
// Translator fixes language and namespace for one request. Middleware stores
// it in the request context with WithTranslator and templates or handlers
// call i18n.T(ctx, key). FormatNumber renders numbers with the language's
// native digits via golang.org/x/text/message.
//
// # Language Negotiation
//
// ParseAcceptLanguage picks the best supported language for an
// Accept-Language header using golang.org/x/text/language matching, and
// NormalizeLanguage folds tags such as "fa-IR" to "fa".
package i18n
