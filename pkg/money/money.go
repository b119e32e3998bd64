// Package money holds the decimal conventions shared by every report.
package money

import "github.com/shopspring/decimal"

const (
	// CurrencyScale is the number of fractional digits kept for currency amounts.
	CurrencyScale int32 = 2
	// RatioScale is the number of fractional digits kept for trend ratios.
	RatioScale int32 = 4
)

var hundred = decimal.NewFromInt(100)

// Currency rounds an amount half away from zero to cents.
func Currency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// Div divides num by den and returns zero instead of panicking when den is zero.
func Div(num, den decimal.Decimal, scale int32) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, scale)
}

// Percent returns part as a percentage of whole, rounded to cents. A zero whole yields zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, CurrencyScale)
}

// ApplyRate returns amount * (1 - rate) rounded to cents.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return Currency(amount.Mul(decimal.NewFromInt(1).Sub(rate)))
}

// Sum adds every value.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
