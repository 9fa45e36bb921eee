package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength caps the header size handed to the parser.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage returns the best match for the Accept-Language header
// among available, or available[0] when nothing matches.
//
//	ParseAcceptLanguage("en-US,en;q=0.9,fa;q=0.8", []string{"fa", "en"}) // "en"
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if header == "" {
		return available[0]
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return available[0]
	}

	supported := make([]language.Tag, 0, len(available))
	for _, a := range available {
		supported = append(supported, language.Make(a))
	}

	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return available[0]
	}
	return available[idx]
}

// NormalizeLanguage reduces a BCP 47 tag ("fa-IR", "EN_us") to its base
// language code ("fa", "en"). Unparseable input yields "".
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// ReplacePlaceholders replaces %{name} placeholders with values from the map.
// Unknown placeholders remain unchanged.
//
//	ReplacePlaceholders("%{n} attempts left", M{"n": 2}) // "2 attempts left"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "%{") {
		return template
	}

	pairs := make([]string, 0, len(placeholders)*2)
	for key, value := range placeholders {
		pairs = append(pairs, "%{"+key+"}", fmt.Sprintf("%v", value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
