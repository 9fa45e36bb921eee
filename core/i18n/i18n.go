package i18n

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultLang is the default language code used when no default language is specified.
const DefaultLang = "fa"

// I18n holds flattened translations for every supported language.
// It is immutable after creation, making it safe for concurrent use.
type I18n struct {
	// Key format: "lang:namespace:key.path"
	translations map[string]string

	defaultLang string
	languages   []string

	// Optional handler called when a translation key is not found
	missingKeyHandler func(lang, namespace, key string)
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates a new I18n instance with the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}

	// The default language always comes first.
	langs := slices.DeleteFunc(slices.Clone(i.languages), func(l string) bool { return l == i.defaultLang })
	slices.Sort(langs)
	i.languages = append([]string{i.defaultLang}, slices.Compact(langs)...)

	return i, nil
}

// WithDefaultLanguage sets the default/fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages sets the supported languages. The default language is
// always included and placed first; the rest are sorted.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		for _, l := range langs {
			if l != "" {
				i.languages = append(i.languages, l)
			}
		}
		return nil
	}
}

// WithMissingKeyHandler sets a handler called when a key is missing in both
// the requested and the default language.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// WithTranslations loads translations for a specific language and namespace.
// Nested maps are flattened into dot-separated keys.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		for key, value := range flattenTranslations(translations, "") {
			i.translations[buildKey(lang, namespace, key)] = value
		}
		if !slices.Contains(i.languages, lang) {
			i.languages = append(i.languages, lang)
		}
		return nil
	}
}

// T returns the translation for key, falling back to the default language
// and finally to the key itself. %{name} placeholders are replaced.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	if translation, ok := i.lookup(lang, namespace, key); ok {
		return replacePlaceholdersWithMerge(translation, placeholders...)
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
	return key
}

// Has reports whether key resolves in lang or the default language.
func (i *I18n) Has(lang, namespace, key string) bool {
	_, ok := i.lookup(lang, namespace, key)
	return ok
}

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	if translation, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return translation, true
	}
	if lang != i.defaultLang {
		if translation, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return translation, true
		}
	}
	return "", false
}

// Languages returns the supported languages, default first.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// Supports reports whether lang is one of the configured languages.
func (i *I18n) Supports(lang string) bool {
	return slices.Contains(i.languages, lang)
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

// flattenTranslations recursively flattens a nested map into dot-notation keys.
func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			// empty YAML node
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

func replacePlaceholdersWithMerge(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}
	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}
