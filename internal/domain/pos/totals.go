package pos

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/pkg/money"
)

// ErrInconsistentTotals is returned by Reconcile when a snapshot's figures
// do not add up.
var ErrInconsistentTotals = errors.New("inconsistent order totals")

// TotalsSnapshot is the derived totals breakdown of an order. It is a pure
// function of the lines, the order discount percentage and the payment
// amount.
type TotalsSnapshot struct {
	OriginalTotal           decimal.Decimal  `json:"original_total"`
	ItemDiscounts           decimal.Decimal  `json:"item_discounts"`
	Subtotal                decimal.Decimal  `json:"subtotal"`
	LineSum                 decimal.Decimal  `json:"line_sum"`
	OrderDiscountPercentage decimal.Decimal  `json:"order_discount_percentage"`
	OrderDiscount           decimal.Decimal  `json:"order_discount"`
	TotalDiscount           decimal.Decimal  `json:"total_discount"`
	TotalAmount             decimal.Decimal  `json:"total_amount"`
	PaymentAmount           *decimal.Decimal `json:"payment_amount,omitempty"`
	Balance                 *decimal.Decimal `json:"balance,omitempty"`
}

// ComputeTotals derives a TotalsSnapshot. It never mutates its inputs and
// returns identical results for identical inputs.
func ComputeTotals(lines []LineItem, orderDiscountPercentage decimal.Decimal, paymentAmount *decimal.Decimal) TotalsSnapshot {
	original, itemDiscounts, lineSum := zero, zero, zero
	for _, l := range lines {
		lo := l.OriginalTotal()
		le := l.EffectiveTotal()
		original = original.Add(lo)
		itemDiscounts = itemDiscounts.Add(lo.Sub(le))
		lineSum = lineSum.Add(le)
	}
	original = money.Round(original)
	itemDiscounts = money.Round(itemDiscounts)
	lineSum = money.Round(lineSum)
	subtotal := money.Round(original.Sub(itemDiscounts))

	pct := ClampPercentage(orderDiscountPercentage)
	orderDiscount := OrderDiscountAmount(subtotal, pct)

	t := TotalsSnapshot{
		OriginalTotal:           original,
		ItemDiscounts:           itemDiscounts,
		Subtotal:                subtotal,
		LineSum:                 lineSum,
		OrderDiscountPercentage: pct,
		OrderDiscount:           orderDiscount,
		TotalDiscount:           money.Round(itemDiscounts.Add(orderDiscount)),
		TotalAmount:             money.Round(subtotal.Sub(orderDiscount)),
	}
	if paymentAmount != nil {
		paid := money.Round(*paymentAmount)
		balance := money.Round(paid.Sub(t.TotalAmount))
		t.PaymentAmount = &paid
		t.Balance = &balance
	}
	return t
}

func (t TotalsSnapshot) clone() TotalsSnapshot {
	if t.PaymentAmount != nil {
		p := *t.PaymentAmount
		t.PaymentAmount = &p
	}
	if t.Balance != nil {
		b := *t.Balance
		t.Balance = &b
	}
	return t
}

// HasPayment reports whether a payment amount was recorded.
func (t TotalsSnapshot) HasPayment() bool { return t.PaymentAmount != nil }

// Reconcile checks the arithmetic relations between a snapshot's fields,
// allowing one minor unit of rounding slack.
func Reconcile(t TotalsSnapshot) error {
	checks := []struct {
		name      string
		got, want decimal.Decimal
	}{
		{"subtotal", t.Subtotal, t.OriginalTotal.Sub(t.ItemDiscounts)},
		{"line sum", t.LineSum, t.Subtotal},
		{"total discount", t.TotalDiscount, t.ItemDiscounts.Add(t.OrderDiscount)},
		{"total amount", t.TotalAmount, t.Subtotal.Sub(t.OrderDiscount)},
		{"grand total", t.TotalAmount, t.OriginalTotal.Sub(t.TotalDiscount)},
	}
	if t.PaymentAmount != nil && t.Balance != nil {
		checks = append(checks, struct {
			name      string
			got, want decimal.Decimal
		}{"balance", *t.Balance, t.PaymentAmount.Sub(t.TotalAmount)})
	}
	for _, c := range checks {
		if !money.WithinTolerance(c.got, c.want) {
			return fmt.Errorf("%w: %s is %s, expected %s", ErrInconsistentTotals, c.name, c.got.StringFixed(money.Places), c.want.StringFixed(money.Places))
		}
	}
	if t.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total amount is negative", ErrInconsistentTotals)
	}
	return nil
}
