package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1}, // 1.005 is stored as 1.00499..., same as the invoices
		{0.375, 0.38},
		{30.000000000000004, 30},
		{0.125, 0.13},
		{12.344, 12.34},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "$80.00", Money(80).String())
	assert.Equal(t, "$0.00", Money(0).String())
	assert.Equal(t, "$242.50", Money(242.5).String())
}
