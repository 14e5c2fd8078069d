package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceFixedAmountWinsOverPercentage(t *testing.T) {
	cfg := SubsidyConfig{Percentage: dec("50"), FixedAmount: dec("5")}
	quote := Price(dec("12"), cfg)

	assert.True(t, quote.Payable.Equal(dec("7")), "payable %s", quote.Payable)
	assert.True(t, quote.Covered.Equal(dec("5")), "covered %s", quote.Covered)
}

func TestPricePercentage(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		pct     string
		payable string
		covered string
	}{
		{"half", "10", "50", "5", "5"},
		{"zero percent", "10", "0", "10", "0"},
		{"full subsidy", "10", "100", "0", "10"},
		{"fractional", "8", "50", "4", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := Price(dec(tt.base), SubsidyConfig{Percentage: dec(tt.pct)})
			assert.True(t, quote.Payable.Equal(dec(tt.payable)), "payable %s", quote.Payable)
			assert.True(t, quote.Covered.Equal(dec(tt.covered)), "covered %s", quote.Covered)
		})
	}
}

func TestPriceClampsMalformedConfig(t *testing.T) {
	// Percentage above 100 must not drive payable negative.
	quote := Price(dec("10"), SubsidyConfig{Percentage: dec("150")})
	assert.True(t, quote.Payable.IsZero(), "payable %s", quote.Payable)
	assert.True(t, quote.Covered.Equal(dec("10")), "covered %s", quote.Covered)

	// Fixed amount above the base price covers at most the base price.
	quote = Price(dec("4"), SubsidyConfig{FixedAmount: dec("9")})
	assert.True(t, quote.Payable.IsZero())
	assert.True(t, quote.Covered.Equal(dec("4")))

	// Negative percentage clamps covered to zero.
	quote = Price(dec("10"), SubsidyConfig{Percentage: dec("-25")})
	assert.True(t, quote.Payable.Equal(dec("10")))
	assert.True(t, quote.Covered.IsZero())
}

func TestPriceZeroBase(t *testing.T) {
	quote := Price(decimal.Zero, SubsidyConfig{Percentage: dec("50"), FixedAmount: dec("3")})
	assert.True(t, quote.Payable.IsZero())
	assert.True(t, quote.Covered.IsZero())
}
