package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/pkg/money"
)

// OrderState is everything about the open order: the lines plus the
// order-level inputs. Totals are derived on demand and cached until either
// the lines or one of the inputs changes.
type OrderState struct {
	store *LineItemStore

	userID                  uuid.UUID
	customerID              *uuid.UUID
	paymentMethod           enum.PaymentMethod
	orderDiscountPercentage decimal.Decimal
	paymentAmount           *decimal.Decimal

	inputRevision uint64
	cached        *TotalsSnapshot
	cachedLines   uint64
	cachedInputs  uint64
}

func NewOrderState(policy DiscountPolicy, userID uuid.UUID) *OrderState {
	return &OrderState{
		store:         NewLineItemStore(policy),
		userID:        userID,
		paymentMethod: enum.PaymentMethodCash,
	}
}

func (o *OrderState) Store() *LineItemStore { return o.store }

func (o *OrderState) UserID() uuid.UUID { return o.userID }

func (o *OrderState) CustomerID() *uuid.UUID { return o.customerID }

func (o *OrderState) PaymentMethod() enum.PaymentMethod { return o.paymentMethod }

func (o *OrderState) OrderDiscountPercentage() decimal.Decimal { return o.orderDiscountPercentage }

// PaymentAmount returns the recorded payment, or nil when none was entered.
func (o *OrderState) PaymentAmount() *decimal.Decimal {
	if o.paymentAmount == nil {
		return nil
	}
	p := *o.paymentAmount
	return &p
}

// SetPaymentMethod reports false and leaves the method unchanged for unknown
// values.
func (o *OrderState) SetPaymentMethod(m enum.PaymentMethod) bool {
	parsed, ok := enum.ParsePaymentMethod(string(m))
	if !ok {
		return false
	}
	o.paymentMethod = parsed
	return true
}

// SetOrderDiscountPercentage stores pct clamped to [0,100] and returns the
// stored value.
func (o *OrderState) SetOrderDiscountPercentage(pct decimal.Decimal) decimal.Decimal {
	o.orderDiscountPercentage = ClampPercentage(pct)
	o.inputRevision++
	return o.orderDiscountPercentage
}

// SetPaymentAmount records the tendered amount. Negative amounts are stored
// as zero.
func (o *OrderState) SetPaymentAmount(amount decimal.Decimal) decimal.Decimal {
	amount = money.Round(amount)
	if amount.IsNegative() {
		amount = zero
	}
	o.paymentAmount = &amount
	o.inputRevision++
	return amount
}

func (o *OrderState) ClearPaymentAmount() {
	o.paymentAmount = nil
	o.inputRevision++
}

func (o *OrderState) SetCustomer(id *uuid.UUID) {
	if id == nil {
		o.customerID = nil
		return
	}
	c := *id
	o.customerID = &c
}

// Totals returns the current totals breakdown.
func (o *OrderState) Totals() TotalsSnapshot {
	if o.cached != nil && o.cachedLines == o.store.Revision() && o.cachedInputs == o.inputRevision {
		return o.cached.clone()
	}
	t := ComputeTotals(o.store.Lines(), o.orderDiscountPercentage, o.paymentAmount)
	o.cached = &t
	o.cachedLines = o.store.Revision()
	o.cachedInputs = o.inputRevision
	return t.clone()
}

// Reset returns the order to its initial state after a completed checkout.
// The cashier is kept.
func (o *OrderState) Reset() {
	o.store.Clear()
	o.customerID = nil
	o.paymentMethod = enum.PaymentMethodCash
	o.orderDiscountPercentage = zero
	o.paymentAmount = nil
	o.inputRevision++
	o.cached = nil
}
