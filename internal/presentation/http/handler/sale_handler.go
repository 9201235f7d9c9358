package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-api/internal/application/service"
	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-api/pkg/pagination"
)

// SaleHandler serves sales history. Cashiers see their own sales; managers
// see every sale.
type SaleHandler struct {
	sales *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(sales *service.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortOrder: filter.SortOrder,
	}

	switch filter.Status {
	case "":
	case "complete":
		status := enum.SaleStatusComplete
		params.Status = &status
	case "due":
		status := enum.SaleStatusDue
		params.Status = &status
	default:
		response.BadRequest(c, "Invalid status. Use 'complete' or 'due'")
		return
	}

	if filter.PaymentMethod != "" {
		method, ok := enum.ParsePaymentMethod(filter.PaymentMethod)
		if !ok {
			response.BadRequest(c, "Invalid payment_method")
			return
		}
		params.PaymentMethod = &method
	}

	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}

	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	result, err := h.sales.ListSales(c.Request.Context(), ownerScope(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), id, ownerScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// GetByInvoice handles fetching a sale by its invoice number
func (h *SaleHandler) GetByInvoice(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	sale, err := h.sales.GetSaleByInvoice(c.Request.Context(), c.Param("invoice_no"), ownerScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Receipt handles projecting a stored sale into receipt rows
func (h *SaleHandler) Receipt(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.sales.GetReceipt(c.Request.Context(), id, ownerScope(c), c.Query("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
