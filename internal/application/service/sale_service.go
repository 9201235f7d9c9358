package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/pos-api/internal/domain/entity"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/pkg/apperror"
	"github.com/sangkips/pos-api/pkg/pagination"
)

// SaleReceipt is a stored sale together with its display rows
type SaleReceipt struct {
	Sale pos.ReceiptSale `json:"sale"`
	Rows pos.ReceiptRows `json:"rows"`
}

// SaleService handles sales history
type SaleService struct {
	saleRepo repository.SaleRepository
	currency string
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, currency string) *SaleService {
	return &SaleService{saleRepo: saleRepo, currency: currency}
}

// ListSales lists sales with filtering. A non-nil owner limits the result to
// that cashier's sales.
func (s *SaleService) ListSales(ctx context.Context, owner *uuid.UUID, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if owner != nil {
		params.UserID = owner
	}

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || (owner != nil && sale.UserID != *owner) {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetSaleByInvoice finds a sale by the invoice number printed on its receipt
func (s *SaleService) GetSaleByInvoice(ctx context.Context, invoiceNo string, owner *uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByInvoiceNo(ctx, strings.ToUpper(strings.TrimSpace(invoiceNo)))
	if err != nil {
		return nil, err
	}
	if sale == nil || (owner != nil && sale.UserID != *owner) {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetReceipt projects a stored sale into receipt rows. An empty currency
// uses the till default.
func (s *SaleService) GetReceipt(ctx context.Context, id uuid.UUID, owner *uuid.UUID, currency string) (*SaleReceipt, error) {
	sale, err := s.GetSale(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	receiptSale := sale.ToReceiptSale()
	return &SaleReceipt{
		Sale: receiptSale,
		Rows: pos.Project(receiptSale, s.currencyOr(currency)),
	}, nil
}

func (s *SaleService) currencyOr(currency string) string {
	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" {
		return c
	}
	return s.currency
}
