package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	domainRepo "github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/pkg/pagination"
)

func orderFor(products ...entity.Product) *pos.OrderState {
	state := pos.NewOrderState(pos.NewDiscountPolicy(enum.DiscountModePercentage), uuid.New())
	for _, p := range products {
		state.Store().AddOrMerge(pos.Product{
			ID:             p.ID,
			Name:           p.Name,
			UnitPrice:      p.UnitPrice(),
			Stock:          p.Quantity,
			TrackInventory: p.TrackInventory,
			Active:         true,
		}, 2, decimal.NewFromInt(10))
	}
	return state
}

func TestSubmitSaleStoresSaleAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	tracked := seedProduct(t, db, "Milk", "MILK", 20000, 5, true)
	untracked := seedProduct(t, db, "Bag", "BAG", 500, 0, false)
	state := orderFor(tracked, untracked)
	state.SetPaymentAmount(decimal.NewFromInt(400))
	totals := state.Totals()

	res, err := repo.SubmitSale(context.Background(), pos.ToPersistablePayload(state, totals))
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason)
	assert.NotEqual(t, uuid.Nil, res.Sale.ID)
	assert.Regexp(t, `^INV-[0-9A-F]{8}$`, res.Sale.InvoiceNo)

	stored, err := repo.GetByID(context.Background(), res.Sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Milk", stored.Items[0].Name)
	assert.Equal(t, "Bag", stored.Items[1].Name)
	assert.Equal(t, totals.TotalAmount.String(), stored.ToReceiptSale().TotalAmount.String())
	assert.True(t, stored.OrderDiscountPercentage.IsZero())
	assert.True(t, stored.Items[0].Discount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, enum.PaymentMethodCash, stored.PaymentMethod)

	var milk entity.Product
	require.NoError(t, db.First(&milk, "id = ?", tracked.ID).Error)
	assert.Equal(t, 3, milk.Quantity)
	var bag entity.Product
	require.NoError(t, db.First(&bag, "id = ?", untracked.ID).Error)
	assert.Equal(t, 0, bag.Quantity)
}

func TestSubmitSaleRejectsInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	p := seedProduct(t, db, "Bread", "BREAD", 8000, 5, true)
	state := orderFor(p)
	payload := pos.ToPersistablePayload(state, state.Totals())

	// another till sold most of the stock meanwhile
	require.NoError(t, db.Model(&p).Update("quantity", 1).Error)

	res, err := repo.SubmitSale(context.Background(), payload)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Contains(t, res.Reason, "Bread")

	var count int64
	db.Model(&entity.Sale{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitSaleRejectsEmptyAndMissingProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)

	res, err := repo.SubmitSale(context.Background(), pos.SalePayload{})
	require.NoError(t, err)
	assert.False(t, res.OK())

	ghost := entity.Product{Name: "Ghost", SellingPrice: 100, Quantity: 5, TrackInventory: true}
	ghost.ID = uuid.New()
	state := orderFor(ghost)
	res, err = repo.SubmitSale(context.Background(), pos.ToPersistablePayload(state, state.Totals()))
	require.NoError(t, err)
	assert.False(t, res.OK())
}

func TestSaleListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()
	cashier := uuid.New()

	mk := func(invoice string, status enum.SaleStatus, at time.Time, user uuid.UUID) {
		s := &entity.Sale{
			InvoiceNo:     invoice,
			UserID:        user,
			SaleDate:      at,
			Status:        status,
			PaymentMethod: enum.PaymentMethodCash,
			DiscountMode:  enum.DiscountModePercentage,
			Total:         1000,
		}
		require.NoError(t, db.Create(s).Error)
	}
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	mk("INV-AAAA0001", enum.SaleStatusComplete, base, cashier)
	mk("INV-AAAA0002", enum.SaleStatusDue, base.Add(time.Hour), cashier)
	mk("INV-BBBB0003", enum.SaleStatusComplete, base.Add(2*time.Hour), uuid.New())

	sales, total, err := repo.List(ctx, &domainRepo.SaleFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "INV-BBBB0003", sales[0].InvoiceNo)

	due := enum.SaleStatusDue
	sales, total, err = repo.List(ctx, &domainRepo.SaleFilterParams{Pagination: pagination.DefaultPagination(), Status: &due})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "INV-AAAA0002", sales[0].InvoiceNo)

	_, total, err = repo.List(ctx, &domainRepo.SaleFilterParams{Pagination: pagination.DefaultPagination(), UserID: &cashier, Search: "aaaa"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	byInvoice, err := repo.GetByInvoiceNo(ctx, "INV-AAAA0001")
	require.NoError(t, err)
	require.NotNil(t, byInvoice)
	assert.Equal(t, cashier, byInvoice.UserID)
}
