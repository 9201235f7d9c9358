package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/pos"
	domainRepo "github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/pkg/utils"
)

type saleRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db, now: time.Now}
}

// SubmitSale persists a checkout payload. Stock shortfalls are reported as a
// rejected result; database failures as errors.
func (r *saleRepository) SubmitSale(ctx context.Context, payload pos.SalePayload) (pos.SubmitResult, error) {
	if len(payload.Items) == 0 {
		return pos.Rejected("sale has no items"), nil
	}

	sale := entity.NewSale(payload, utils.GenerateInvoiceNo("INV"), r.now().UTC())
	err := r.Create(ctx, sale)

	var stockErr *domainRepo.StockError
	switch {
	case errors.As(err, &stockErr):
		return pos.Rejected(insufficientStockReason(sale, stockErr.ProductIDs)), nil
	case err != nil:
		return pos.SubmitResult{}, fmt.Errorf("store sale: %w", err)
	}
	return pos.Created(sale.Persisted()), nil
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decrements, missing, err := trackedDecrements(tx, sale.Items)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &domainRepo.StockError{ProductIDs: missing}
		}

		failed, err := decrementStock(tx, decrements)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return &domainRepo.StockError{ProductIDs: failed}
		}

		return tx.Create(sale).Error
	})
}

// trackedDecrements sums item quantities per product, keeping only products
// that track inventory. Products that no longer exist are returned as missing.
func trackedDecrements(tx *gorm.DB, items []entity.SaleItem) (map[uuid.UUID]int, []uuid.UUID, error) {
	wanted := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if _, seen := wanted[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	var products []entity.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, nil, err
	}
	found := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}

	decrements := make(map[uuid.UUID]int)
	var missing []uuid.UUID
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if p.TrackInventory {
			decrements[id] = wanted[id]
		}
	}
	return decrements, missing, nil
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&sale, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where("LOWER(invoice_no) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("sale_date " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func insufficientStockReason(sale *entity.Sale, ids []uuid.UUID) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, it := range sale.Items {
			if it.ProductID == id {
				names = append(names, it.Name)
				break
			}
		}
	}
	return "Insufficient stock for: " + strings.Join(names, ", ")
}
