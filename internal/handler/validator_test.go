package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedEntry struct {
	Mode string `validate:"required,mode"`
	ID   string `validate:"required,max=16,entryid"`
}

func TestValidator_Mode(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		mode    string
		wantErr bool
	}{
		{"grid", "grid", false},
		{"reel", "reel", false},
		{"wheel", "wheel", false},
		{"digit", "digit", false},
		{"unknown", "slots", true},
		{"case sensitive", "GRID", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(validatedEntry{Mode: tt.mode, ID: "a"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_EntryID(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"plain", "sword", false},
		{"numeric", "42", false},
		{"unicode", "épée", false},
		{"exactly max length", strings.Repeat("a", 16), false},
		{"over max length", strings.Repeat("a", 17), true},
		{"empty", "", true},
		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
		{"delete", "a\x7fb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(validatedEntry{Mode: "grid", ID: tt.id})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(validatedEntry{Mode: "slots", ID: strings.Repeat("a", 20)})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Must be one of grid, reel, wheel, digit", fields["mode"])
	assert.Equal(t, "Must be at most 16", fields["id"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("boom")))
}
