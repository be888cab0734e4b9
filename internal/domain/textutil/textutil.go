package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding whitespace and normalises to NFC so that Hangul
// typed as decomposed jamo compares equal to its composed form.
func Clean(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// CleanPtr applies Clean to an optional value.
func CleanPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := Clean(*value)
	return &cleaned
}
