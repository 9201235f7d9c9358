package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/money"
)

// Product represents a sellable catalog item
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID     *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	BrandID        *uuid.UUID     `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Code           string         `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Quantity       int            `gorm:"default:0" json:"quantity"`  // units in stock
	SellingPrice   int64          `gorm:"default:0" json:"-"`         // Stored in cents
	TrackInventory bool           `gorm:"default:false" json:"track_inventory"`
	IsActive       bool           `gorm:"default:false;index" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// UnitPrice returns the selling price as an amount
func (p *Product) UnitPrice() decimal.Decimal {
	return money.FromCents(p.SellingPrice)
}

// SetUnitPrice stores price in cents
func (p *Product) SetUnitPrice(price decimal.Decimal) {
	p.SellingPrice = money.ToCents(price)
}

// ForSale is the snapshot the cart takes when the product is added
func (p *Product) ForSale() pos.Product {
	return pos.Product{
		ID:             p.ID,
		Name:           p.Name,
		UnitPrice:      p.UnitPrice(),
		Stock:          p.Quantity,
		Active:         p.IsActive,
		TrackInventory: p.TrackInventory,
	}
}

// MarshalJSON converts cents to a decimal price for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		SellingPrice: p.UnitPrice().InexactFloat64(),
	})
}

// Category groups products for catalog filtering
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}

// Brand is the manufacturer label used as a catalog filter
type Brand struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Brand) TableName() string {
	return "brands"
}
