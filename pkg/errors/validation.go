package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds record names so a hostile dataset cannot produce
// unbounded element ids.
const maxNameLength = 256

// ValidateURL validates a dataset URL for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateRecordName validates the name of a dataset record.
//
// Names become element ids in the rendered SVG, so the rules are:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateRecordName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedRecord, "record name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeMalformedRecord, "record name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedRecord, "record name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateValue checks that a leaf value is usable as a treemap weight.
func ValidateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeMalformedRecord, "value must be finite, got %v", v)
	}
	if v < 0 {
		return New(ErrCodeMalformedRecord, "value must not be negative, got %v", v)
	}
	return nil
}

// ValidateDimensions checks canvas width/height and inner padding.
func ValidateDimensions(width, height, padding float64) error {
	if !(width > 0) || !(height > 0) {
		return New(ErrCodeInvalidInput, "canvas must have positive size, got %vx%v", width, height)
	}
	if padding < 0 || math.IsNaN(padding) {
		return New(ErrCodeInvalidInput, "padding must not be negative, got %v", padding)
	}
	return nil
}
