package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cafe/pkg/phone"
)

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"09123456789":     "0912 345 6789",
		"0912-345-6789":   "0912 345 6789",
		"(0912) 345 6789": "0912 345 6789",
		"0912345678":      "0912345678",
		"091234567890":    "091234567890",
		"abc":             "abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, phone.Format(in), in)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"09123456789":     "09123456789",
		"۰۹۱۲۳۴۵۶۷۸۹":     "09123456789",
		"٠٩١٢٣٤٥٦٧٨٩":     "09123456789",
		"0912 345 6789":   "09123456789",
		"+98 912 3456789": "09123456789",
		"0098912345678 9": "09123456789",
		"98912":           "98912",
	}
	for in, want := range tests {
		assert.Equal(t, want, phone.Normalize(in), in)
	}
}
