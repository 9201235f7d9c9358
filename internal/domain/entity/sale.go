package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/money"
)

// Sale is a completed checkout. Amounts are the figures the cashier saw at
// the till; they are never recomputed from current product prices.
type Sale struct {
	ID                      uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo               string             `gorm:"size:100;uniqueIndex;not null" json:"invoice_no"`
	UserID                  uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID              *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SaleDate                time.Time          `gorm:"not null;index" json:"sale_date"`
	Status                  enum.SaleStatus    `gorm:"default:0" json:"status"`
	PaymentMethod           enum.PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	DiscountMode            enum.DiscountMode  `gorm:"size:20;not null" json:"discount_mode"`
	TotalProducts           int                `gorm:"default:0" json:"total_products"`
	OriginalTotal           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ItemDiscounts           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SubTotal                int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OrderDiscountPercentage decimal.Decimal    `gorm:"type:numeric(5,2);default:0" json:"order_discount_percentage"`
	OrderDiscount           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalDiscount           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total                   int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Pay                     *int64             `json:"-"`                  // nil when no payment amount was entered
	Balance                 *int64             `json:"-"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
	DeletedAt               gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		OriginalTotal float64  `json:"original_total"`
		ItemDiscounts float64  `json:"item_discounts"`
		SubTotal      float64  `json:"sub_total"`
		OrderDiscount float64  `json:"order_discount"`
		TotalDiscount float64  `json:"total_discount"`
		Total         float64  `json:"total"`
		Pay           *float64 `json:"pay,omitempty"`
		Balance       *float64 `json:"balance,omitempty"`
	}{
		Alias:         Alias(s),
		OriginalTotal: centsToFloat(s.OriginalTotal),
		ItemDiscounts: centsToFloat(s.ItemDiscounts),
		SubTotal:      centsToFloat(s.SubTotal),
		OrderDiscount: centsToFloat(s.OrderDiscount),
		TotalDiscount: centsToFloat(s.TotalDiscount),
		Total:         centsToFloat(s.Total),
		Pay:           optionalCentsToFloat(s.Pay),
		Balance:       optionalCentsToFloat(s.Balance),
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one persisted sale line
type SaleItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Position           int             `gorm:"not null;default:0" json:"position"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	UnitPrice          int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Discount           decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"discount"`
	EffectiveUnitPrice int64           `gorm:"not null" json:"-"`
	LineDiscount       int64           `gorm:"default:0" json:"-"`
	Total              int64           `gorm:"not null" json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice          float64 `json:"unit_price"`
		EffectiveUnitPrice float64 `json:"effective_unit_price"`
		LineDiscount       float64 `json:"line_discount"`
		Total              float64 `json:"total"`
	}{
		Alias:              Alias(si),
		UnitPrice:          centsToFloat(si.UnitPrice),
		EffectiveUnitPrice: centsToFloat(si.EffectiveUnitPrice),
		LineDiscount:       centsToFloat(si.LineDiscount),
		Total:              centsToFloat(si.Total),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSale maps a checkout payload onto a storable sale. The sale is Due when
// the recorded payment does not cover the total.
func NewSale(p pos.SalePayload, invoiceNo string, at time.Time) *Sale {
	sale := &Sale{
		InvoiceNo:               invoiceNo,
		UserID:                  p.UserID,
		CustomerID:              p.CustomerID,
		SaleDate:                at,
		Status:                  enum.SaleStatusComplete,
		PaymentMethod:           p.PaymentMethod,
		DiscountMode:            p.DiscountMode,
		OriginalTotal:           money.ToCents(p.OriginalTotal),
		ItemDiscounts:           money.ToCents(p.ItemDiscounts),
		SubTotal:                money.ToCents(p.Subtotal),
		OrderDiscountPercentage: p.OrderDiscountPercentage,
		OrderDiscount:           money.ToCents(p.OrderDiscount),
		TotalDiscount:           money.ToCents(p.TotalDiscount),
		Total:                   money.ToCents(p.TotalAmount),
		Pay:                     optionalCents(p.PaymentAmount),
		Balance:                 optionalCents(p.Balance),
		Items:                   make([]SaleItem, 0, len(p.Items)),
	}
	if p.Balance != nil && p.Balance.IsNegative() {
		sale.Status = enum.SaleStatusDue
	}
	for i, it := range p.Items {
		sale.TotalProducts += it.Quantity
		sale.Items = append(sale.Items, SaleItem{
			Position:           i,
			ProductID:          it.ProductID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          money.ToCents(it.UnitPrice),
			Discount:           it.RawDiscount,
			EffectiveUnitPrice: money.ToCents(it.EffectiveUnitPrice),
			LineDiscount:       money.ToCents(it.LineDiscountAmount),
			Total:              money.ToCents(it.LineTotal),
		})
	}
	return sale
}

// Persisted returns the identifiers assigned when the sale was stored
func (s *Sale) Persisted() pos.PersistedSale {
	return pos.PersistedSale{
		ID:        s.ID,
		InvoiceNo: s.InvoiceNo,
		SaleDate:  s.SaleDate,
		Status:    s.Status,
	}
}

// ToReceiptSale converts the stored figures back for receipt projection
// without recomputing any of them.
func (s *Sale) ToReceiptSale() pos.ReceiptSale {
	items := make([]pos.ReceiptItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, pos.ReceiptItem{
			ProductID:          it.ProductID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          money.FromCents(it.UnitPrice),
			EffectiveUnitPrice: money.FromCents(it.EffectiveUnitPrice),
			LineDiscount:       money.FromCents(it.LineDiscount),
			LineTotal:          money.FromCents(it.Total),
		})
	}
	return pos.ReceiptSale{
		SaleID:                  s.ID,
		InvoiceNo:               s.InvoiceNo,
		SaleDate:                s.SaleDate,
		Status:                  s.Status,
		UserID:                  s.UserID,
		CustomerID:              s.CustomerID,
		PaymentMethod:           s.PaymentMethod,
		Items:                   items,
		OriginalTotal:           money.FromCents(s.OriginalTotal),
		ItemDiscounts:           money.FromCents(s.ItemDiscounts),
		Subtotal:                money.FromCents(s.SubTotal),
		OrderDiscountPercentage: s.OrderDiscountPercentage,
		OrderDiscount:           money.FromCents(s.OrderDiscount),
		TotalDiscount:           money.FromCents(s.TotalDiscount),
		TotalAmount:             money.FromCents(s.Total),
		PaymentAmount:           optionalAmount(s.Pay),
		Balance:                 optionalAmount(s.Balance),
	}
}

func optionalCents(d *decimal.Decimal) *int64 {
	if d == nil {
		return nil
	}
	c := money.ToCents(*d)
	return &c
}

func optionalAmount(c *int64) *decimal.Decimal {
	if c == nil {
		return nil
	}
	d := money.FromCents(*c)
	return &d
}

func centsToFloat(c int64) float64 {
	return money.FromCents(c).InexactFloat64()
}

func optionalCentsToFloat(c *int64) *float64 {
	if c == nil {
		return nil
	}
	f := centsToFloat(*c)
	return &f
}
