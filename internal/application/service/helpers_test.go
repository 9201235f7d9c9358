package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/internal/infrastructure/database"
	"github.com/sangkips/pos-api/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// fakeCatalog serves products from memory
type fakeCatalog struct {
	products map[uuid.UUID]pos.Product
}

func newFakeCatalog(products ...pos.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[uuid.UUID]pos.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) ProductForSale(_ context.Context, id uuid.UUID) (pos.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return pos.Product{}, apperror.NewNotFoundError("Product")
	}
	return p, nil
}

// fakeSubmitter records payloads. When release is set it blocks until the
// channel is closed or the context ends.
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []pos.SalePayload
	result   *pos.SubmitResult
	err      error
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeSubmitter) SubmitSale(ctx context.Context, payload pos.SalePayload) (pos.SubmitResult, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	result, err, entered, release := f.result, f.err, f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return pos.SubmitResult{}, ctx.Err()
		}
	}
	if err != nil {
		return pos.SubmitResult{}, err
	}
	if result != nil {
		return *result, nil
	}
	return pos.Created(pos.PersistedSale{
		ID:        uuid.New(),
		InvoiceNo: "INV-TEST0001",
		SaleDate:  time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Status:    enum.SaleStatusComplete,
	}), nil
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSubmitter) set(fn func(f *fakeSubmitter)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

var (
	rice = pos.Product{ID: uuid.New(), Name: "Basmati Rice 1kg", UnitPrice: dec("100"), Stock: 10, Active: true, TrackInventory: true}
	dhal = pos.Product{ID: uuid.New(), Name: "Red Dhal", UnitPrice: dec("50"), Active: true}
	gone = pos.Product{ID: uuid.New(), Name: "Discontinued", UnitPrice: dec("10"), Active: false}
)

func newCartService(t *testing.T) *CartService {
	t.Helper()
	return NewCartService(newFakeCatalog(rice, dhal, gone), enum.DiscountModePercentage, time.Hour, zerolog.Nop())
}

// fillCart builds the standard test order:
// rice 2 x 100 at 10% off = 180, dhal 1 x 50 = 50, order discount 10%,
// paid 250. Total 207, balance 43.
func fillCart(t *testing.T, carts *CartService, cartID, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.AddItem(ctx, cartID, userID, rice.ID, 2, dec("10"))
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, cartID, userID, dhal.ID, 1, decimal.Zero)
	require.NoError(t, err)
	_, err = carts.SetOrderDiscount(cartID, userID, dec("10"))
	require.NoError(t, err)
	_, err = carts.SetPayment(cartID, userID, "CASH", decPtr("250"))
	require.NoError(t, err)
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db, zerolog.Nop()))
	return db
}

func productByCode(t *testing.T, db *gorm.DB, code string) entity.Product {
	t.Helper()
	var p entity.Product
	require.NoError(t, db.Where("code = ?", code).First(&p).Error)
	return p
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, code, appErr.Code, "unexpected error: %v", err)
	return appErr
}
