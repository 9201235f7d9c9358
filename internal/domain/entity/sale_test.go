package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
)

func checkoutPayload(t *testing.T, paid string) (pos.SalePayload, pos.TotalsSnapshot, *pos.OrderState) {
	t.Helper()
	state := pos.NewOrderState(pos.NewDiscountPolicy(enum.DiscountModeAbsolute), uuid.New())
	state.Store().AddOrMerge(pos.Product{ID: uuid.New(), Name: "Rice 1kg", UnitPrice: decimal.RequireFromString("100"), Stock: 10, TrackInventory: true}, 5, decimal.RequireFromString("10"))
	state.Store().AddOrMerge(pos.Product{ID: uuid.New(), Name: "Dhal", UnitPrice: decimal.RequireFromString("50"), Stock: 10}, 1, decimal.Zero)
	state.SetOrderDiscountPercentage(decimal.RequireFromString("10"))
	if paid != "" {
		state.SetPaymentAmount(decimal.RequireFromString(paid))
	}
	totals := state.Totals()
	return pos.ToPersistablePayload(state, totals), totals, state
}

func TestNewSaleStoresCents(t *testing.T) {
	payload, _, _ := checkoutPayload(t, "500")
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	sale := NewSale(payload, "INV-1", at)

	assert.Equal(t, "INV-1", sale.InvoiceNo)
	assert.Equal(t, at, sale.SaleDate)
	assert.Equal(t, int64(55000), sale.OriginalTotal)
	assert.Equal(t, int64(5000), sale.ItemDiscounts)
	assert.Equal(t, int64(50000), sale.SubTotal)
	assert.Equal(t, int64(5000), sale.OrderDiscount)
	assert.Equal(t, int64(45000), sale.Total)
	require.NotNil(t, sale.Pay)
	assert.Equal(t, int64(50000), *sale.Pay)
	assert.Equal(t, int64(5000), *sale.Balance)
	assert.Equal(t, enum.SaleStatusComplete, sale.Status)
	assert.Equal(t, 6, sale.TotalProducts)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 0, sale.Items[0].Position)
	assert.Equal(t, int64(9000), sale.Items[0].EffectiveUnitPrice)
	assert.Equal(t, int64(45000), sale.Items[0].Total)
}

func TestNewSaleUnderpaidIsDue(t *testing.T) {
	payload, _, _ := checkoutPayload(t, "400")

	sale := NewSale(payload, "INV-2", time.Now())

	assert.Equal(t, enum.SaleStatusDue, sale.Status)
	assert.Equal(t, int64(-5000), *sale.Balance)
}

func TestNewSaleWithoutPayment(t *testing.T) {
	payload, _, _ := checkoutPayload(t, "")

	sale := NewSale(payload, "INV-3", time.Now())

	assert.Nil(t, sale.Pay)
	assert.Nil(t, sale.Balance)
	assert.Equal(t, enum.SaleStatusComplete, sale.Status)
}

func TestToReceiptSaleMatchesCheckoutReceipt(t *testing.T) {
	payload, totals, state := checkoutPayload(t, "500")
	sale := NewSale(payload, "INV-4", time.Now())
	sale.ID = uuid.New()

	stored := projectStored(sale)
	live := pos.Project(pos.FromPersistedResponse(sale.Persisted(), state, totals), "LKR")

	assert.Equal(t, live, stored)
}

func projectStored(s *Sale) pos.ReceiptRows {
	return pos.Project(s.ToReceiptSale(), "LKR")
}

func TestSaleMarshalJSON(t *testing.T) {
	payload, _, _ := checkoutPayload(t, "")
	sale := NewSale(payload, "INV-5", time.Now())

	data, err := json.Marshal(sale)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 450.0, out["total"])
	assert.Equal(t, 500.0, out["sub_total"])
	assert.Equal(t, "absolute", out["discount_mode"])
	_, hasPay := out["pay"]
	assert.False(t, hasPay)
}

func TestProductForSale(t *testing.T) {
	p := &Product{ID: uuid.New(), Name: "Tea", Quantity: 4, IsActive: true, TrackInventory: true}
	p.SetUnitPrice(decimal.RequireFromString("120.50"))

	snap := p.ForSale()
	assert.Equal(t, p.ID, snap.ID)
	assert.Equal(t, "Tea", snap.Name)
	assert.True(t, snap.UnitPrice.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, 4, snap.Stock)
	assert.True(t, snap.Active)
	assert.True(t, snap.TrackInventory)
}
