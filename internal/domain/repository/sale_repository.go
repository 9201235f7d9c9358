package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/pagination"
)

// ErrInsufficientStock is returned by SaleRepository.Create when a tracked
// product no longer has enough units. Nothing is written in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockError lists the products that could not be decremented
type StockError struct {
	ProductIDs []uuid.UUID
}

func (e *StockError) Error() string { return ErrInsufficientStock.Error() }

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// SaleRepository defines the interface for sale data operations. It is also
// the persistence collaborator checkout submits to.
type SaleRepository interface {
	pos.SaleSubmitter
	// Create stores the sale with its items and decrements stock for tracked
	// products in one transaction. A *StockError means nothing was written.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	UserID        *uuid.UUID
	Status        *enum.SaleStatus
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	SortOrder     string
}
