package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator binds an I18n instance to one language and namespace.
type Translator struct {
	i18n      *I18n
	language  string
	namespace string
	printer   *message.Printer
}

// NewTranslator creates a new Translator with the specified language and namespace context.
// An unsupported language falls back to the default one.
func NewTranslator(i18n *I18n, lang, namespace string) *Translator {
	if i18n == nil {
		panic("localization service is not provided")
	}
	if lang == "" || !i18n.Supports(lang) {
		lang = i18n.DefaultLanguage()
	}
	return &Translator{
		i18n:      i18n,
		language:  lang,
		namespace: namespace,
		printer:   message.NewPrinter(language.Make(lang)),
	}
}

// T translates a key using the translator's language and namespace context.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.T(t.language, t.namespace, key, placeholders...)
}

// Has reports whether key has a translation.
func (t *Translator) Has(key string) bool {
	return t.i18n.Has(t.language, t.namespace, key)
}

// Language returns the current language context of the translator.
func (t *Translator) Language() string {
	return t.language
}

// Namespace returns the current namespace context of the translator.
func (t *Translator) Namespace() string {
	return t.namespace
}

// FormatNumber formats n with the language's digits and separators
// (Persian and Arabic use their native digit sets).
func (t *Translator) FormatNumber(n int) string {
	return t.printer.Sprintf("%d", n)
}

// ContextKey is the key a *Translator is stored under. Request contexts that
// only expose SetValue(key, val) use it directly.
type ContextKey struct{}

// WithTranslator stores t in ctx.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, ContextKey{}, t)
}

// FromContext returns the translator stored by WithTranslator, or nil.
func FromContext(ctx context.Context) *Translator {
	t, _ := ctx.Value(ContextKey{}).(*Translator)
	return t
}

// T translates key with the translator found in ctx.
// Without a translator the key is returned unchanged.
func T(ctx context.Context, key string, placeholders ...M) string {
	if t := FromContext(ctx); t != nil {
		return t.T(key, placeholders...)
	}
	return key
}
