package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "R$ 0,00"},
		{"10", "R$ 10,00"},
		{"25.5", "R$ 25,50"},
		{"1234.5", "R$ 1.234,50"},
		{"9.999", "R$ 10,00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(decimal.RequireFromString(tt.amount)))
		})
	}
}
