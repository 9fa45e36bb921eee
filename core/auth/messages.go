package auth

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/i18n"
)

// Op names the form an upstream error belongs to.
type Op string

const (
	OpLogin    Op = "login"
	OpRegister Op = "register"
	OpOTP      Op = "otp"
	OpResend   Op = "resend"
)

var attemptsLeftRe = regexp.MustCompile(`Attempts left:\s*(\d+)`)

type rule struct {
	status   int
	contains string // empty matches any message
	key      string
}

var rules = map[Op][]rule{
	OpLogin: {
		{http.StatusBadRequest, "Invalid request format", "auth.errors.required"},
		{http.StatusBadRequest, "Invalid input", "auth.errors.iranianPhone"},
		{http.StatusUnauthorized, "Invalid recaptcha", "auth.login.recaptchaError"},
		{http.StatusUnauthorized, "User not found or inactive", "auth.login.phoneNotFound"},
		{http.StatusUnauthorized, "Account temporarily locked", "auth.login.accountLocked"},
		{http.StatusUnauthorized, "Invalid credentials", "auth.login.invalidCredentials"},
		{http.StatusInternalServerError, "", "auth.login.serviceUnavailable"},
	},
	OpRegister: {
		{http.StatusConflict, "Phone number already registered", "auth.register.phoneAlreadyRegistered"},
		{http.StatusTooManyRequests, "Phone number is temporarily blocked", "auth.otp.phoneBlocked"},
	},
	OpOTP: {
		{http.StatusUnauthorized, "OTP has expired", "auth.otp.otpExpired"},
		{http.StatusUnauthorized, "Sign-up session expired", "auth.otp.sessionExpired"},
		{http.StatusTooManyRequests, "Phone is temporarily blocked", "auth.otp.phoneBlocked"},
		{http.StatusTooManyRequests, "Maximum OTP attempts exceeded", "auth.otp.maxAttempts"},
	},
	OpResend: {
		{http.StatusUnauthorized, "Sign-up session expired", "auth.otp.sessionExpired"},
		{http.StatusTooManyRequests, "Phone is temporarily blocked", "auth.otp.phoneBlocked"},
		{http.StatusTooManyRequests, "Please wait before requesting new OTP", "auth.otp.cooldown"},
		{http.StatusTooManyRequests, "Hourly OTP limit exceeded", "auth.otp.hourLimitExceeded"},
		{http.StatusTooManyRequests, "Daily OTP limit exceeded", "auth.otp.dayLimitExceeded"},
	},
}

// FallbackKey is the generic failure key of op.
func FallbackKey(op Op) string {
	return "auth." + string(op) + ".error"
}

// MessageKey maps an upstream failure of op to a translation key and its
// placeholders. Messages match by substring. Errors that carry no upstream
// status, and unknown combinations, map to FallbackKey(op).
func MessageKey(err error, op Op) (string, i18n.M) {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return FallbackKey(op), nil
	}

	if op == OpOTP && apiErr.Status == http.StatusUnauthorized && strings.Contains(apiErr.Message, "Invalid OTP") {
		if m := attemptsLeftRe.FindStringSubmatch(apiErr.Message); m != nil {
			return "auth.otp.invalidCode", i18n.M{"attemptsLeft": m[1]}
		}
	}

	for _, r := range rules[op] {
		if r.status != apiErr.Status {
			continue
		}
		if r.contains == "" || strings.Contains(apiErr.Message, r.contains) {
			return r.key, nil
		}
	}
	return FallbackKey(op), nil
}

// SessionExpired reports whether the upstream sign-up session is gone and
// the user has to start the registration again.
func SessionExpired(err error) bool {
	apiErr, ok := apiclient.AsError(err)
	return ok && apiErr.Status == http.StatusUnauthorized &&
		strings.Contains(apiErr.Message, "Sign-up session expired")
}
