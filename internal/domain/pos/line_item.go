package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/pkg/money"
)

// Product is the catalog data the cart needs to price and cap a line.
type Product struct {
	ID             uuid.UUID
	Name           string
	UnitPrice      decimal.Decimal
	Stock          int
	Active         bool
	TrackInventory bool
}

// LineItem is one product entry in the open order.
//
// UnitPriceAtAdd is a snapshot taken when the line was created or last
// repriced; it is never re-read from the live catalog. RawDiscount holds the
// clamped discount in the unit of the store's DiscountPolicy.
type LineItem struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	RawDiscount        decimal.Decimal `json:"discount"`
	UnitPriceAtAdd     decimal.Decimal `json:"unit_price"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	Stock              int             `json:"stock"`
	TrackInventory     bool            `json:"track_inventory"`
}

// OriginalTotal is the undiscounted line amount.
func (l LineItem) OriginalTotal() decimal.Decimal {
	return money.Round(l.UnitPriceAtAdd.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// EffectiveTotal is the line amount after the line's own discount.
func (l LineItem) EffectiveTotal() decimal.Decimal {
	return money.Round(l.EffectiveUnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// DiscountTotal is the currency amount the line discount takes off.
func (l LineItem) DiscountTotal() decimal.Decimal {
	return l.OriginalTotal().Sub(l.EffectiveTotal())
}

// capQuantity bounds q by the stock snapshot when the product tracks
// inventory. The second result reports whether q was lowered.
func (l LineItem) capQuantity(q int) (int, bool) {
	if !l.TrackInventory {
		return q, false
	}
	stock := l.Stock
	if stock < 0 {
		stock = 0
	}
	if q > stock {
		return stock, true
	}
	return q, false
}
