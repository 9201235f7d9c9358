// Package money holds the rounding and formatting rules for currency amounts.
//
// All amounts are shopspring decimals. Anything that is added, subtracted or
// multiplied into a total must go through Round first so repeated cart edits
// never accumulate drift.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Places is the number of decimal places every stored amount is rounded to.
const Places = 2

var (
	hundred = decimal.NewFromInt(100)

	// MinorUnit is the smallest representable amount (one cent).
	MinorUnit = decimal.New(1, -Places)
)

// Round rounds half-up (away from zero) to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// FromFloat converts a float to a rounded amount.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// FromCents converts minor units to an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Places)
}

// ToCents converts an amount to minor units, rounding first.
func ToCents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

// Percent returns pct percent of d, rounded.
func Percent(d, pct decimal.Decimal) decimal.Decimal {
	return Round(d.Mul(pct).Div(hundred))
}

// Clamp constrains d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// WithinTolerance reports whether a and b differ by at most one minor unit.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(MinorUnit)
}

// Format renders d for display in the given currency, e.g. "LKR 1250.00".
//
// Amounts are always shown with two decimals, the precision they are stored
// and summed at, so the rows of a receipt add up on paper. Known ISO 4217
// codes are printed in their canonical form; unknown codes never fail and
// are printed as given.
func Format(d decimal.Decimal, currencyCode string) string {
	code := strings.TrimSpace(currencyCode)
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	return code + " " + d.StringFixed(Places)
}
