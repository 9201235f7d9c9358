package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sangkips/pos-api/internal/config"
	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/pkg/utils"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: NewGormLogger(log, debug),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// NewGormLogger routes gorm's SQL logging through zerolog. Statements are
// only logged in debug mode; slow queries and errors always are.
func NewGormLogger(log zerolog.Logger, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Str("component", "gorm").Msgf(format, args...)
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		// Catalog
		&entity.Category{},
		&entity.Brand{},
		&entity.Product{},

		// Sales
		&entity.Sale{},
		&entity.SaleItem{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDemoCatalog fills an empty catalog with a few products so a fresh
// install can ring up a sale. It does nothing when products already exist.
func SeedDemoCatalog(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Int64("products", count).Msg("catalog not empty, skipping demo seed")
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grocery := entity.Category{Name: "Grocery", Slug: utils.Slugify("Grocery")}
		household := entity.Category{Name: "Household", Slug: utils.Slugify("Household")}
		for _, c := range []*entity.Category{&grocery, &household} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}
		house := entity.Brand{Name: "House Brand", Slug: utils.Slugify("House Brand")}
		if err := tx.Create(&house).Error; err != nil {
			return err
		}

		products := []entity.Product{
			{Name: "Basmati Rice 1kg", Code: "GR-0001", SellingPrice: 45000, Quantity: 40, TrackInventory: true, IsActive: true, CategoryID: &grocery.ID, BrandID: &house.ID},
			{Name: "Red Dhal 500g", Code: "GR-0002", SellingPrice: 27500, Quantity: 60, TrackInventory: true, IsActive: true, CategoryID: &grocery.ID, BrandID: &house.ID},
			{Name: "Ceylon Tea 100g", Code: "GR-0003", SellingPrice: 39000, Quantity: 25, TrackInventory: true, IsActive: true, CategoryID: &grocery.ID},
			{Name: "Dish Soap 500ml", Code: "HH-0001", SellingPrice: 32000, Quantity: 18, TrackInventory: true, IsActive: true, CategoryID: &household.ID},
			{Name: "Carrier Bag", Code: "HH-0002", SellingPrice: 500, IsActive: true, CategoryID: &household.ID},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		log.Info().Int("products", len(products)).Msg("seeded demo catalog")
		return nil
	})
}
