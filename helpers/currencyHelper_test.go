package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{1050.5, "R$ 1.050,50"},
		{9.999, "R$ 10,00"},
		{12.345, "R$ 12,35"},
		{1234567.891, "R$ 1.234.567,89"},
		{100, "R$ 100,00"},
		{-42.1, "-R$ 42,10"},
		{-0.001, "R$ 0,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in), "FormatCurrency(%v)", tt.in)
	}
}

func TestLineTotal(t *testing.T) {
	total := LineTotal(0.1, 3).Add(LineTotal(0.2, 1))
	assert.Equal(t, "R$ 0,50", FormatDecimal(total))
}
