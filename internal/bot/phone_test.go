package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"plain nine digits", "mi número es 987654321", "987654321", true},
		{"with separators", "llámame al 987-654-321", "987654321", true},
		{"with country code", "+51 987 654 321", "51987654321", true},
		{"too long keeps last eleven", "0051987654321", "51987654321", true},
		{"too short", "anexo 4521", "", false},
		{"no digits", "no tengo teléfono", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, found := ExtractPhone(tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, phone)
		})
	}
}

func TestExtractPhoneScatteredDigits(t *testing.T) {
	// all digits in the text are joined, including unrelated ones
	phone, found := ExtractPhone("local 2, tel 987654321")
	assert.True(t, found)
	assert.Equal(t, "2987654321", phone)
}
