package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePrefix(t *testing.T) {
	tests := []struct {
		name     string
		siteName string
		expected string
	}{
		{"multi-word name", "Meadow Solar Farm", "MEAD"},
		{"short name padded", "Oak", "OAKX"},
		{"single letter", "K", "KXXX"},
		{"lowercase input", "acme east", "ACME"},
		{"digits and punctuation stripped", "42 - B7 Depot!", "BDEP"},
		{"accented letters folded", "Érable Québec", "ERAB"},
		{"no letters falls back", "1234 --- 5678", "SITE"},
		{"empty name falls back", "", "SITE"},
		{"exactly four letters", "Acme", "ACME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DerivePrefix(tt.siteName))
		})
	}
}

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, "MEAD00001", FormatIdentifier("MEAD", 1))
	assert.Equal(t, "MEAD00002", FormatIdentifier("MEAD", 2))
	assert.Equal(t, "ACME00123", FormatIdentifier("ACME", 123))
	assert.Equal(t, "SITE99999", FormatIdentifier("SITE", 99999))
	// Width is a floor, not a ceiling: numbers keep growing past it.
	assert.Equal(t, "SITE100000", FormatIdentifier("SITE", 100000))
}
