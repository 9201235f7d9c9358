package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/pos-api/internal/domain/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Category{},
		&entity.Brand{},
		&entity.Product{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.IdempotencyKey{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, code string, cents int64, stock int, tracked bool) entity.Product {
	t.Helper()
	p := entity.Product{
		Name:           name,
		Code:           code,
		SellingPrice:   cents,
		Quantity:       stock,
		TrackInventory: tracked,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
