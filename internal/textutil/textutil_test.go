package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := map[string]string{
		"  Dólares  americanos ": "DOLARES AMERICANOS",
		"Ñaña":                   "NANA",
		"San Martín de Porres":   "SAN MARTIN DE PORRES",
		"":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Key(in), in)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Oliver Thomas Alexander", TitleCase("OLIVER THOMAS ALEXANDER"))
	assert.Equal(t, "Peruano-Alemana", TitleCase("peruano-alemana"))
	assert.Equal(t, "Ñuñez", TitleCase("ÑUÑEZ"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ingeniero civil", Capitalize("INGENIERO CIVIL"))
	assert.Equal(t, "", Capitalize(""))
}

func TestOnlyDigitsAndSpaces(t *testing.T) {
	assert.Equal(t, "20123456789", OnlyDigits("RUC: 20-123456789"))
	assert.Equal(t, "a b c", CleanSpaces("  a \n\t b   c "))
	assert.Equal(t, "x", FirstNonEmpty("", "  ", "x", "y"))
}
