package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/internal/domain/enum"
)

// SalePayloadItem is one persisted sale line.
type SalePayloadItem struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	RawDiscount        decimal.Decimal `json:"discount"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	LineDiscountAmount decimal.Decimal `json:"line_discount_amount"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// SalePayload is the record handed to the persistence collaborator at
// checkout. SaleID and SaleDate are left nil; the store assigns them.
type SalePayload struct {
	SaleID        *uuid.UUID         `json:"sale_id"`
	SaleDate      *time.Time         `json:"sale_date"`
	UserID        uuid.UUID          `json:"user_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	DiscountMode  enum.DiscountMode  `json:"discount_mode"`
	Items         []SalePayloadItem  `json:"items"`

	OriginalTotal           decimal.Decimal  `json:"original_total"`
	ItemDiscounts           decimal.Decimal  `json:"item_discounts"`
	Subtotal                decimal.Decimal  `json:"subtotal"`
	OrderDiscountPercentage decimal.Decimal  `json:"order_discount_percentage"`
	OrderDiscount           decimal.Decimal  `json:"order_discount"`
	TotalDiscount           decimal.Decimal  `json:"total_discount"`
	TotalAmount             decimal.Decimal  `json:"total_amount"`
	PaymentAmount           *decimal.Decimal `json:"payment_amount,omitempty"`
	Balance                 *decimal.Decimal `json:"balance,omitempty"`
}

// ToPersistablePayload assembles the sale record from the order and the
// totals computed for it. Subtotal is the sum of the persisted line totals.
func ToPersistablePayload(state *OrderState, totals TotalsSnapshot) SalePayload {
	lines := state.Store().Lines()
	items := make([]SalePayloadItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, SalePayloadItem{
			ProductID:          l.ProductID,
			Name:               l.Name,
			Quantity:           l.Quantity,
			UnitPrice:          l.UnitPriceAtAdd,
			RawDiscount:        l.RawDiscount,
			EffectiveUnitPrice: l.EffectiveUnitPrice,
			LineDiscountAmount: l.DiscountTotal(),
			LineTotal:          l.EffectiveTotal(),
		})
	}

	t := totals.clone()
	return SalePayload{
		UserID:                  state.UserID(),
		CustomerID:              state.CustomerID(),
		PaymentMethod:           state.PaymentMethod(),
		DiscountMode:            state.Store().Policy().Mode(),
		Items:                   items,
		OriginalTotal:           t.OriginalTotal,
		ItemDiscounts:           t.ItemDiscounts,
		Subtotal:                t.LineSum,
		OrderDiscountPercentage: t.OrderDiscountPercentage,
		OrderDiscount:           t.OrderDiscount,
		TotalDiscount:           t.TotalDiscount,
		TotalAmount:             t.TotalAmount,
		PaymentAmount:           t.PaymentAmount,
		Balance:                 t.Balance,
	}
}

// PersistedSale is what the store hands back for a created sale.
type PersistedSale struct {
	ID        uuid.UUID
	InvoiceNo string
	SaleDate  time.Time
	Status    enum.SaleStatus
}

type SubmitStatus string

const (
	SubmitCreated  SubmitStatus = "created"
	SubmitRejected SubmitStatus = "rejected"
)

// SubmitResult is the outcome of handing a payload to a SaleSubmitter.
// Transport or storage failures are reported as errors instead.
type SubmitResult struct {
	Status SubmitStatus
	Sale   PersistedSale
	Reason string
}

func Created(sale PersistedSale) SubmitResult {
	return SubmitResult{Status: SubmitCreated, Sale: sale}
}

func Rejected(reason string) SubmitResult {
	return SubmitResult{Status: SubmitRejected, Reason: reason}
}

func (r SubmitResult) OK() bool { return r.Status == SubmitCreated }

// SaleSubmitter persists a sale payload.
type SaleSubmitter interface {
	SubmitSale(ctx context.Context, payload SalePayload) (SubmitResult, error)
}

// ReceiptItem is a sale line as shown on the receipt.
type ReceiptItem struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	LineDiscount       decimal.Decimal `json:"line_discount"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// ReceiptSale is the data a receipt is rendered from.
type ReceiptSale struct {
	SaleID        uuid.UUID          `json:"sale_id"`
	InvoiceNo     string             `json:"invoice_no"`
	SaleDate      time.Time          `json:"sale_date"`
	Status        enum.SaleStatus    `json:"status"`
	UserID        uuid.UUID          `json:"user_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Items         []ReceiptItem      `json:"items"`

	OriginalTotal           decimal.Decimal  `json:"original_total"`
	ItemDiscounts           decimal.Decimal  `json:"item_discounts"`
	Subtotal                decimal.Decimal  `json:"subtotal"`
	OrderDiscountPercentage decimal.Decimal  `json:"order_discount_percentage"`
	OrderDiscount           decimal.Decimal  `json:"order_discount"`
	TotalDiscount           decimal.Decimal  `json:"total_discount"`
	TotalAmount             decimal.Decimal  `json:"total_amount"`
	PaymentAmount           *decimal.Decimal `json:"payment_amount,omitempty"`
	Balance                 *decimal.Decimal `json:"balance,omitempty"`
}

// FromPersistedResponse merges the store's identifiers into the sale that
// was just submitted. The figures come from the same payload that was
// persisted, so the receipt matches the stored sale exactly.
func FromPersistedResponse(persisted PersistedSale, state *OrderState, totals TotalsSnapshot) ReceiptSale {
	return ReceiptFromPayload(persisted, ToPersistablePayload(state, totals))
}

// ReceiptFromPayload builds a ReceiptSale from an already assembled payload.
func ReceiptFromPayload(persisted PersistedSale, p SalePayload) ReceiptSale {
	items := make([]ReceiptItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, ReceiptItem{
			ProductID:          it.ProductID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			EffectiveUnitPrice: it.EffectiveUnitPrice,
			LineDiscount:       it.LineDiscountAmount,
			LineTotal:          it.LineTotal,
		})
	}
	return ReceiptSale{
		SaleID:                  persisted.ID,
		InvoiceNo:               persisted.InvoiceNo,
		SaleDate:                persisted.SaleDate,
		Status:                  persisted.Status,
		UserID:                  p.UserID,
		CustomerID:              p.CustomerID,
		PaymentMethod:           p.PaymentMethod,
		Items:                   items,
		OriginalTotal:           p.OriginalTotal,
		ItemDiscounts:           p.ItemDiscounts,
		Subtotal:                p.Subtotal,
		OrderDiscountPercentage: p.OrderDiscountPercentage,
		OrderDiscount:           p.OrderDiscount,
		TotalDiscount:           p.TotalDiscount,
		TotalAmount:             p.TotalAmount,
		PaymentAmount:           p.PaymentAmount,
		Balance:                 p.Balance,
	}
}
