package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenCartRequest opens a cart session, optionally for a known customer
type OpenCartRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// AddItemRequest adds a product to the cart or merges into its existing line.
// Quantity below 1 is treated as 1; one request adds at most 100000 units.
type AddItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"max=100000"`
	Discount  *decimal.Decimal `json:"discount"`
}

// ChangeQuantityRequest applies a signed delta to a line's quantity
type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"min=-100000,max=100000"`
}

// SetDiscountRequest replaces a line's raw discount
type SetDiscountRequest struct {
	Discount *decimal.Decimal `json:"discount" binding:"required"`
}

// OrderDiscountRequest sets the order-level discount percentage
type OrderDiscountRequest struct {
	Percentage *decimal.Decimal `json:"percentage" binding:"required"`
}

// PaymentRequest records the payment method and tendered amount.
// A nil amount clears any recorded payment.
type PaymentRequest struct {
	Method string           `json:"method" binding:"required"`
	Amount *decimal.Decimal `json:"amount"`
}

// CustomerRequest attaches or detaches the customer
type CustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}
