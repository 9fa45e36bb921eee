package phone

import (
	"strings"
	"unicode"
)

// Normalize folds Persian (۰-۹) and Arabic-Indic (٠-٩) digits to ASCII and
// drops every other non-digit character. A leading +98 or 0098 country code
// becomes the domestic 0 prefix.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		}
	}
	digits := b.String()

	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	switch {
	case strings.HasPrefix(trimmed, "+98") && strings.HasPrefix(digits, "98"):
		digits = "0" + digits[2:]
	case strings.HasPrefix(digits, "0098"):
		digits = "0" + digits[4:]
	}
	return digits
}

// Format renders an 11-digit number as "XXXX XXX XXXX". Input with any
// other number of digits is returned unchanged.
func Format(s string) string {
	if s == "" {
		return ""
	}

	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) != 11 {
		return s
	}
	return string(digits[:4]) + " " + string(digits[4:7]) + " " + string(digits[7:])
}
