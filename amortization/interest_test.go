package amortization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.165, 0.17},   // 0.16500000000000000777...
		{2.675, 2.67},   // 2.67499999999999982236...
		{83.335, 83.33}, // 83.33499999999999374722...
		{0.125, 0.12},   // exact tie, half to even
		{0.375, 0.38},   // exact tie, half to even
		{83.3333333, 83.33},
		{-2.675, -2.67},
		{12, 12},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundCents(tt.in), "roundCents(%v)", tt.in)
	}

	assert.True(t, math.IsInf(roundCents(math.Inf(1)), 1))
}
