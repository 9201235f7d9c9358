package pos

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/pkg/money"
)

var (
	zero       = decimal.Zero
	hundredPct = decimal.NewFromInt(100)
)

// DiscountPolicy resolves effective unit prices for a single, system-wide
// discount mode. Out-of-range inputs are clamped, never rejected.
type DiscountPolicy struct {
	mode enum.DiscountMode
}

// NewDiscountPolicy returns a policy for mode. Unknown modes fall back to
// percentage discounts.
func NewDiscountPolicy(mode enum.DiscountMode) DiscountPolicy {
	if parsed, ok := enum.ParseDiscountMode(string(mode)); ok {
		return DiscountPolicy{mode: parsed}
	}
	return DiscountPolicy{mode: enum.DiscountModePercentage}
}

// Mode reports the policy's discount unit.
func (p DiscountPolicy) Mode() enum.DiscountMode {
	if p.mode == "" {
		return enum.DiscountModePercentage
	}
	return p.mode
}

// ClampLineDiscount bounds raw to [0,100] in percentage mode and to
// [0, unitPrice] in absolute mode. The result is what gets stored on the line.
func (p DiscountPolicy) ClampLineDiscount(unitPrice, raw decimal.Decimal) decimal.Decimal {
	raw = money.Round(raw)
	if p.Mode() == enum.DiscountModeAbsolute {
		upper := money.Round(unitPrice)
		if upper.IsNegative() {
			upper = zero
		}
		return money.Clamp(raw, zero, upper)
	}
	return money.Clamp(raw, zero, hundredPct)
}

// EffectiveUnitPrice applies the line discount to unitPrice. The result is
// rounded and always within [0, unitPrice].
func (p DiscountPolicy) EffectiveUnitPrice(unitPrice, raw decimal.Decimal) decimal.Decimal {
	unitPrice = money.Round(unitPrice)
	if unitPrice.IsNegative() {
		return zero
	}
	raw = p.ClampLineDiscount(unitPrice, raw)

	var effective decimal.Decimal
	if p.Mode() == enum.DiscountModeAbsolute {
		effective = unitPrice.Sub(raw)
	} else {
		effective = unitPrice.Mul(hundredPct.Sub(raw)).Div(hundredPct)
	}
	return money.Clamp(money.Round(effective), zero, unitPrice)
}

// ClampPercentage bounds an order-level discount percentage to [0,100].
func ClampPercentage(pct decimal.Decimal) decimal.Decimal {
	return money.Clamp(money.Round(pct), zero, hundredPct)
}

// OrderDiscountAmount is the currency amount of an order-level percentage
// discount applied to subtotal.
func OrderDiscountAmount(subtotal, pct decimal.Decimal) decimal.Decimal {
	return money.Percent(subtotal, ClampPercentage(pct))
}
