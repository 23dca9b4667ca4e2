package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRecordName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Wii", false},
		{"spaces", "Wii Sports Resort", false},
		{"punctuation", "New Super Mario Bros.", false},
		{"unicode", "Pokémon Red/Pokémon Blue", false},

		{"empty", "", true},
		{"control char", "Wii\x00", true},
		{"newline", "Wii\nSports", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecordName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecordName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedRecord) {
				t.Errorf("ValidateRecordName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 82.53, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateValue(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, padding float64
		wantErr                bool
	}{
		{"default canvas", 960, 570, 1.5, false},
		{"no padding", 100, 100, 0, false},
		{"zero width", 0, 570, 1.5, true},
		{"negative height", 960, -1, 1.5, true},
		{"negative padding", 960, 570, -2, true},
		{"nan width", math.NaN(), 570, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height, tt.padding)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v, %v) error = %v, wantErr %v",
					tt.width, tt.height, tt.padding, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidVizType,
		ErrCodeInvalidConfig,
		ErrCodeMalformedRecord,
		ErrCodeDuplicateID,
		ErrCodeFetchFailed,
		ErrCodeNotFound,
		ErrCodeNetwork,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
