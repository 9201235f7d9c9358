package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/pos-api/internal/infrastructure/repository"
)

// till wires the real services over an in-memory database
type till struct {
	catalog  *CatalogService
	carts    *CartService
	checkout *CheckoutService
	sales    *SaleService
	idOf     func(code string) uuid.UUID
	stockOf  func(code string) int
}

func newTill(t *testing.T) *till {
	t.Helper()
	db := newServiceDB(t)
	require.NoError(t, database.SeedDemoCatalog(context.Background(), db, zerolog.Nop()))

	saleRepo := infraRepo.NewSaleRepository(db)
	catalog := NewCatalogService(
		infraRepo.NewProductRepository(db),
		infraRepo.NewCategoryRepository(db),
		infraRepo.NewBrandRepository(db),
	)
	carts := NewCartService(catalog, enum.DiscountModeAbsolute, time.Hour, zerolog.Nop())
	return &till{
		catalog:  catalog,
		carts:    carts,
		checkout: NewCheckoutService(carts, saleRepo, time.Second, "LKR", zerolog.Nop()),
		sales:    NewSaleService(saleRepo, "LKR"),
		idOf:     func(code string) uuid.UUID { return productByCode(t, db, code).ID },
		stockOf:  func(code string) int { return productByCode(t, db, code).Quantity },
	}
}

// ringUp sells 2 rice at 50 off each and 3 carrier bags, paid 1000.
// Rice 2 x 400 = 800, bags 3 x 5 = 15, total 815, change 185.
func (tl *till) ringUp(t *testing.T, cashier uuid.UUID) *CheckoutResult {
	t.Helper()
	ctx := context.Background()
	cart := tl.carts.Open(cashier, nil)
	_, err := tl.carts.AddItem(ctx, cart.ID, cashier, tl.idOf("GR-0001"), 2, dec("50"))
	require.NoError(t, err)
	_, err = tl.carts.AddItem(ctx, cart.ID, cashier, tl.idOf("HH-0002"), 3, dec("0"))
	require.NoError(t, err)
	_, err = tl.carts.SetPayment(cart.ID, cashier, "CASH", decPtr("1000"))
	require.NoError(t, err)

	result, err := tl.checkout.Checkout(ctx, cart.ID, cashier)
	require.NoError(t, err)
	return result
}

func TestCheckoutPersistsSaleAndDecrementsStock(t *testing.T) {
	tl := newTill(t)
	cashier := uuid.New()

	result := tl.ringUp(t, cashier)
	assert.NotEqual(t, uuid.Nil, result.Sale.SaleID)
	assert.Regexp(t, `^INV-[0-9A-F]{8}$`, result.Sale.InvoiceNo)
	assertAmount(t, "815", result.Sale.TotalAmount)

	assert.Equal(t, 38, tl.stockOf("GR-0001"))
	assert.Equal(t, 0, tl.stockOf("HH-0002"), "untracked products keep their stock")

	stored, err := tl.sales.GetSale(context.Background(), result.Sale.SaleID, &cashier)
	require.NoError(t, err)
	assert.Equal(t, result.Sale.InvoiceNo, stored.InvoiceNo)
	assert.Equal(t, enum.DiscountModeAbsolute, stored.DiscountMode)
	assert.Equal(t, enum.SaleStatusComplete, stored.Status)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Basmati Rice 1kg", stored.Items[0].Name)
}

func TestStoredReceiptMatchesCheckoutReceipt(t *testing.T) {
	tl := newTill(t)
	cashier := uuid.New()
	result := tl.ringUp(t, cashier)

	stored, err := tl.sales.GetReceipt(context.Background(), result.Sale.SaleID, &cashier, "")
	require.NoError(t, err)
	assert.Equal(t, result.Receipt.Lines, stored.Rows.Lines)
	for _, key := range []string{pos.RowOriginalTotal, pos.RowItemDiscounts, pos.RowSubtotal, pos.RowGrandTotal, pos.RowPaymentAmount, pos.RowBalance} {
		want, ok := result.Receipt.Row(key)
		require.True(t, ok, key)
		got, ok := stored.Rows.Row(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	usd, err := tl.sales.GetReceipt(context.Background(), result.Sale.SaleID, nil, "usd")
	require.NoError(t, err)
	grand, _ := usd.Rows.Row(pos.RowGrandTotal)
	assert.Equal(t, "USD 815.00", grand.Value)
}

func TestCheckoutRejectedWhenStockRanOut(t *testing.T) {
	tl := newTill(t)
	cashier := uuid.New()
	ctx := context.Background()

	first := tl.carts.Open(cashier, nil)
	second := tl.carts.Open(cashier, nil)
	tea := tl.idOf("GR-0003")
	_, err := tl.carts.AddItem(ctx, first.ID, cashier, tea, 20, dec("0"))
	require.NoError(t, err)
	_, err = tl.carts.AddItem(ctx, second.ID, cashier, tea, 10, dec("0"))
	require.NoError(t, err)

	_, err = tl.checkout.Checkout(ctx, first.ID, cashier)
	require.NoError(t, err)

	_, err = tl.checkout.Checkout(ctx, second.ID, cashier)
	appErr := requireAppError(t, err, http.StatusConflict)
	assert.Contains(t, appErr.Message, "Ceylon Tea 100g")
	assert.Equal(t, 5, tl.stockOf("GR-0003"))

	view, err := tl.carts.Get(second.ID, cashier)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestSalesAreScopedToOwner(t *testing.T) {
	tl := newTill(t)
	alice, bob := uuid.New(), uuid.New()
	aliceSale := tl.ringUp(t, alice)
	tl.ringUp(t, bob)
	ctx := context.Background()

	mine, err := tl.sales.ListSales(ctx, &alice, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Pagination.Total)
	assert.Equal(t, aliceSale.Sale.SaleID, mine.Items[0].ID)

	all, err := tl.sales.ListSales(ctx, nil, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	_, err = tl.sales.GetSale(ctx, aliceSale.Sale.SaleID, &bob)
	requireAppError(t, err, http.StatusNotFound)
	_, err = tl.sales.GetReceipt(ctx, uuid.New(), nil, "")
	requireAppError(t, err, http.StatusNotFound)
}

func TestSaleLookupByInvoice(t *testing.T) {
	tl := newTill(t)
	alice, bob := uuid.New(), uuid.New()
	result := tl.ringUp(t, alice)
	ctx := context.Background()

	sale, err := tl.sales.GetSaleByInvoice(ctx, " "+result.Sale.InvoiceNo+" ", &alice)
	require.NoError(t, err)
	assert.Equal(t, result.Sale.SaleID, sale.ID)

	_, err = tl.sales.GetSaleByInvoice(ctx, result.Sale.InvoiceNo, &bob)
	requireAppError(t, err, http.StatusNotFound)

	sale, err = tl.sales.GetSaleByInvoice(ctx, result.Sale.InvoiceNo, nil)
	require.NoError(t, err)
	assert.Equal(t, alice, sale.UserID)
}
