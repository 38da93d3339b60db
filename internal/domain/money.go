package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders d with exactly two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseMoney accepts "12.50" or "12,50". Empty input and negative values
// are rejected.
func ParseMoney(field, text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, Invalid(field, "value is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Invalid(field, "not a valid amount: "+text)
	}
	if d.IsNegative() {
		return decimal.Zero, Invalid(field, "value must not be negative")
	}
	return RoundMoney(d), nil
}
