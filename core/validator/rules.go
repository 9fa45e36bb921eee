package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Translation keys reported by the built-in rules.
const (
	KeyRequired         = "auth.errors.required"
	KeyMinLength        = "auth.errors.minLength"
	KeyMaxLength        = "auth.errors.maxLength"
	KeyIranianPhone     = "auth.errors.iranianPhone"
	KeyOTP              = "auth.errors.otp"
	KeyStrongPassword   = "auth.errors.passwordStrength"
	KeyPasswordMismatch = "auth.errors.passwordMismatch"
	KeyPersianText      = "auth.errors.persianText"
	KeyAcceptTerms      = "auth.errors.acceptTerms"
	KeyPattern          = "auth.errors.pattern"
	KeyIn               = "auth.errors.invalidChoice"
)

var (
	iranianPhoneRe = regexp.MustCompile(`^09[0-9]{9}$`)
	otpRe          = regexp.MustCompile(`^\d{6}$`)
	persianTextRe  = regexp.MustCompile(`^[\x{0600}-\x{06FF}\s\x{200C}\x{200D}]+$`)
)

// Rule is a deferred check with the error to report when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs rules in order and returns the failures as ValidationErrors,
// or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if r.Check != nil && !r.Check() {
			errs.Add(r.Error)
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func fail(field, message, key string, values map[string]any) ValidationError {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return ValidationError{Field: field, Message: message, TranslationKey: key, TranslationValues: values}
}

// optional passes empty values so that format rules do not duplicate
// Required.
func optional(value string, check func() bool) func() bool {
	return func() bool {
		return strings.TrimSpace(value) == "" || check()
	}
}

// Required fails on blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: fail(field, "field is required", KeyRequired, nil),
	}
}

// Accepted fails unless the checkbox was ticked.
func Accepted(field string, value bool) Rule {
	return Rule{
		Check: func() bool { return value },
		Error: fail(field, "must be accepted", KeyAcceptTerms, nil),
	}
}

// MinLenString checks the length in characters.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: optional(value, func() bool { return utf8.RuneCountInString(value) >= min }),
		Error: fail(field, fmt.Sprintf("must be at least %d characters", min), KeyMinLength, map[string]any{"min": min}),
	}
}

// MaxLenString checks the length in characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: fail(field, fmt.Sprintf("must be at most %d characters", max), KeyMaxLength, map[string]any{"max": max}),
	}
}

// MatchesRegex checks value against pattern. An invalid pattern always fails.
func MatchesRegex(field, value, pattern, description string) Rule {
	re, err := regexp.Compile(pattern)
	return Rule{
		Check: optional(value, func() bool { return err == nil && re.MatchString(value) }),
		Error: fail(field, "must match "+description, KeyPattern, map[string]any{"pattern": description}),
	}
}

// In checks that value is one of options.
func In(field, value string, options ...string) Rule {
	return Rule{
		Check: optional(value, func() bool {
			for _, o := range options {
				if value == o {
					return true
				}
			}
			return false
		}),
		Error: fail(field, "must be one of "+strings.Join(options, ", "), KeyIn, nil),
	}
}

// IsIranianPhone reports whether s is an Iranian mobile number: 09 followed
// by nine digits.
func IsIranianPhone(s string) bool {
	return iranianPhoneRe.MatchString(s)
}

// IranianPhone validates a mobile number. Empty values pass.
func IranianPhone(field, value string) Rule {
	return Rule{
		Check: optional(value, func() bool { return IsIranianPhone(value) }),
		Error: fail(field, "must be an Iranian mobile number", KeyIranianPhone, nil),
	}
}

// IsOTP reports whether s is a six-digit code.
func IsOTP(s string) bool {
	return otpRe.MatchString(s)
}

// OTP validates a one-time code. Empty values pass.
func OTP(field, value string) Rule {
	return Rule{
		Check: optional(value, func() bool { return IsOTP(value) }),
		Error: fail(field, "must be a 6-digit code", KeyOTP, nil),
	}
}

// IsPersianText reports whether s holds only Persian letters, digits,
// spaces and joiners.
func IsPersianText(s string) bool {
	return persianTextRe.MatchString(s)
}

// PersianText validates Persian input. Empty values pass.
func PersianText(field, value string) Rule {
	return Rule{
		Check: optional(value, func() bool { return IsPersianText(value) }),
		Error: fail(field, "must be written in Persian", KeyPersianText, nil),
	}
}

// StrongPassword requires upper and lower case letters, a digit and a
// special character. Empty values pass.
func StrongPassword(field, value string) Rule {
	return Rule{
		Check: optional(value, func() bool { return IsStrongPassword(value) }),
		Error: fail(field, "is too weak", KeyStrongPassword, nil),
	}
}

// Match fails when confirm differs from value. The error is reported on field.
func Match(field, value, confirm string) Rule {
	return Rule{
		Check: func() bool { return value == confirm },
		Error: fail(field, "does not match", KeyPasswordMismatch, nil),
	}
}
