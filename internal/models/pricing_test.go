package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		unitPrice   float64
		discountPct float64
		want        float64
	}{
		{"no discount", 10, 99.99, 0, 999.90},
		{"round discount", 4, 250.00, 10, 900.00},
		{"full discount", 7, 31.50, 100, 0},
		{"single unit", 1, 1250.00, 0, 1250.00},
		{"rounds to cents", 3, 9.99, 7.5, 27.72}, // 27.72225 → 27.72
		{"rounds up", 2, 7.77, 21, 12.28},        // 12.2766 → 12.28
		{"large volume", 120, 1250.00, 0, 150000.00},
		{"fractional discount", 12, 80.00, 12.5, 840.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LineTotal(tt.quantity, tt.unitPrice, tt.discountPct), 1e-9)
		})
	}
}

func TestLineTotalZeroQuantity(t *testing.T) {
	// The schema's CHECK (quantity > 0) rejects this before it's stored,
	// but the function itself is total.
	assert.Zero(t, LineTotal(0, 500, 0))
}
