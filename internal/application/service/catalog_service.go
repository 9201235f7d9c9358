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

// ProductSource supplies the product snapshot a cart line is created from
type ProductSource interface {
	ProductForSale(ctx context.Context, id uuid.UUID) (pos.Product, error)
}

// CatalogService is the read-only product catalog used by the till
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

// ListProducts lists active products with filtering
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	params.ActiveOnly = true

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetProduct retrieves an active product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByCode resolves a scanned barcode to an active product
func (s *CatalogService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Product code is required")
	}
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ProductForSale returns the cart snapshot of an active product
func (s *CatalogService) ProductForSale(ctx context.Context, id uuid.UUID) (pos.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return pos.Product{}, err
	}
	return product.ForSale(), nil
}

// ListCategories lists categories, optionally filtered by name
func (s *CatalogService) ListCategories(ctx context.Context, search string) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx, search)
}

// ListBrands lists brands, optionally filtered by name
func (s *CatalogService) ListBrands(ctx context.Context, search string) ([]entity.Brand, error) {
	return s.brandRepo.List(ctx, search)
}
