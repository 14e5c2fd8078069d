// Package pricing implements the subsidy arithmetic shared by the ordering
// flow (price preview) and the dashboard revenue aggregation. Both call sites
// must produce the same payable amount for the same inputs.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SubsidyConfig carries a company's meal subsidy policy. A positive
// FixedAmount takes precedence over Percentage regardless of the latter's
// value; the two are not combined.
type SubsidyConfig struct {
	Percentage  decimal.Decimal `json:"subsidyPercentage"`
	FixedAmount decimal.Decimal `json:"fixedSubsidyAmount"`
}

// Quote is the split of a meal price between the employee and the company.
type Quote struct {
	Payable decimal.Decimal `json:"payable"`
	Covered decimal.Decimal `json:"covered"`
}

// Price resolves how much of basePrice the employee pays and how much the
// company covers. Malformed configurations (percentage outside [0,100],
// fixed amount above the base price) are clamped rather than rejected:
// covered never exceeds basePrice and payable never goes below zero.
func Price(basePrice decimal.Decimal, cfg SubsidyConfig) Quote {
	if basePrice.IsNegative() {
		basePrice = decimal.Zero
	}

	var covered decimal.Decimal
	if cfg.FixedAmount.IsPositive() {
		covered = decimal.Min(basePrice, cfg.FixedAmount)
	} else {
		covered = basePrice.Mul(cfg.Percentage).Div(hundred)
	}

	if covered.IsNegative() {
		covered = decimal.Zero
	}
	if covered.GreaterThan(basePrice) {
		covered = basePrice
	}

	return Quote{
		Payable: basePrice.Sub(covered),
		Covered: covered,
	}
}
