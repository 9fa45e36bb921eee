package settings

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Theme is the color theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Language is an interface language.
type Language string

const (
	LanguageFa Language = "fa"
	LanguageEn Language = "en"
	LanguageAr Language = "ar"
)

// Languages lists the supported languages, default first.
var Languages = []Language{LanguageFa, LanguageEn, LanguageAr}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	switch l {
	case LanguageFa, LanguageEn, LanguageAr:
		return true
	}
	return false
}

// ParseLanguage maps a language tag such as "en-US" or "FA" to a supported
// Language.
func ParseLanguage(s string) (Language, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	l := Language(base.String())
	return l, l.Valid()
}

// Dir is the text direction of l.
func (l Language) Dir() string {
	if l == LanguageFa || l == LanguageAr {
		return "rtl"
	}
	return "ltr"
}

const (
	DefaultTheme    = ThemeLight
	DefaultLanguage = LanguageFa
)

// Settings are the visitor's preferences.
type Settings struct {
	Theme    Theme    `json:"theme"`
	Language Language `json:"language"`
}

// Default returns light/fa.
func Default() Settings {
	return Settings{Theme: DefaultTheme, Language: DefaultLanguage}
}

// Toggle returns s with the other theme.
func (s Settings) Toggle() Settings {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	return s
}

// WithTheme returns s with theme t. Unknown themes are ignored.
func (s Settings) WithTheme(t Theme) Settings {
	if t.Valid() {
		s.Theme = t
	}
	return s
}

// WithLanguage returns s with language l. Unsupported languages are ignored.
func (s Settings) WithLanguage(l Language) Settings {
	if l.Valid() {
		s.Language = l
	}
	return s
}

// Dir is the text direction of the selected language.
func (s Settings) Dir() string {
	return s.Language.Dir()
}

// IsDark reports whether the dark theme is selected.
func (s Settings) IsDark() bool {
	return s.Theme == ThemeDark
}

// Validate checks both fields.
func (s Settings) Validate() error {
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, s.Theme)
	}
	if !s.Language.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, s.Language)
	}
	return nil
}

// Encode serializes s for the preferences cookie. The JSON is
// percent-encoded because cookie values cannot hold quotes or commas.
func (s Settings) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return url.PathEscape(string(raw)), nil
}

// Parse reads a cookie value written by Encode or by older clients, which
// stored the JSON unescaped. Missing or unknown fields are left empty for
// the caller to fill in.
func Parse(raw string) (Settings, error) {
	raw = strings.TrimSpace(raw)
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}

	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !s.Theme.Valid() {
		s.Theme = ""
	}
	if l, ok := ParseLanguage(string(s.Language)); ok {
		s.Language = l
	} else {
		s.Language = ""
	}
	return s, nil
}
