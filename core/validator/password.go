package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

var strengthKeys = [...]string{
	"auth.passwordStrength.veryWeak",
	"auth.passwordStrength.weak",
	"auth.passwordStrength.medium",
	"auth.passwordStrength.strong",
	"auth.passwordStrength.veryStrong",
}

// PasswordScore rates s from 0 to 4.
func PasswordScore(s string) int {
	if s == "" {
		return 0
	}
	score := 0
	if utf8.RuneCountInString(s) >= 8 {
		score++
	}
	if strings.IndexFunc(s, isASCIIUpper) >= 0 {
		score++
	}
	if strings.IndexFunc(s, isASCIIDigit) >= 0 {
		score++
	}
	if strings.IndexFunc(s, func(r rune) bool { return !isASCIIAlnum(r) }) >= 0 {
		score++
	}
	return score
}

// PasswordStrengthKey returns the translation key for score, clamped to 0..4.
func PasswordStrengthKey(score int) string {
	score = max(0, min(score, len(strengthKeys)-1))
	return strengthKeys[score]
}

// IsStrongPassword reports whether s has an uppercase letter, a lowercase
// letter, a digit and one of !@#$%^&*(),.?":{}|<>.
func IsStrongPassword(s string) bool {
	return strings.IndexFunc(s, isASCIIUpper) >= 0 &&
		strings.IndexFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0 &&
		strings.IndexFunc(s, isASCIIDigit) >= 0 &&
		strings.ContainsAny(s, passwordSpecials)
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (isASCIIUpper(r) || isASCIIDigit(r) || (r >= 'a' && r <= 'z'))
}
