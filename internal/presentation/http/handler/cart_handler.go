package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/pos-api/internal/application/service"
	"github.com/sangkips/pos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-api/internal/presentation/http/dto/response"
)

// CartHandler turns till events into cart operations
type CartHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, checkout *service.CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// Open handles opening a new cart
func (h *CartHandler) Open(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.OpenCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	response.Created(c, "Cart opened", h.carts.Open(userID, req.CustomerID))
}

// Get handles fetching the current cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	h.respond(c, "Cart retrieved successfully")(h.carts.Get(cartID, userID))
}

// AddItem handles adding a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}

	h.respond(c, "Item added")(h.carts.AddItem(c.Request.Context(), cartID, userID, req.ProductID, req.Quantity, discount))
}

// ChangeQuantity handles a quantity delta on a line
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}

	var req request.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Quantity updated")(h.carts.ChangeQuantity(cartID, userID, productID, req.Delta))
}

// SetDiscount handles replacing a line discount
func (h *CartHandler) SetDiscount(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Discount updated")(h.carts.SetDiscount(cartID, userID, productID, *req.Discount))
}

// RemoveItem handles deleting a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}

	h.respond(c, "Item removed")(h.carts.RemoveItem(cartID, userID, productID))
}

// SetOrderDiscount handles the order-level discount percentage
func (h *CartHandler) SetOrderDiscount(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.OrderDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Order discount updated")(h.carts.SetOrderDiscount(cartID, userID, *req.Percentage))
}

// SetPayment handles the payment method and tendered amount
func (h *CartHandler) SetPayment(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Payment updated")(h.carts.SetPayment(cartID, userID, req.Method, req.Amount))
}

// SetCustomer handles attaching a customer to the order
func (h *CartHandler) SetCustomer(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.respond(c, "Customer updated")(h.carts.SetCustomer(cartID, userID, req.CustomerID))
}

// Cancel handles clearing the cart
func (h *CartHandler) Cancel(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	h.respond(c, "Cart cleared")(h.carts.Cancel(cartID, userID))
}

// Close handles discarding the cart session when the till signs off
func (h *CartHandler) Close(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.carts.Close(cartID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart closed", nil)
}

// Checkout handles submitting the cart as a sale
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, cartID, ok := h.ids(c)
	if !ok {
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), cartID, userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", result)
}

// ids returns the authenticated user and the :id cart parameter
func (h *CartHandler) ids(c *gin.Context) (userID, cartID uuid.UUID, ok bool) {
	if userID, ok = requireUser(c); !ok {
		return
	}
	cartID, ok = pathUUID(c, "id")
	return
}

func (h *CartHandler) respond(c *gin.Context, message string) func(*service.CartView, error) {
	return func(view *service.CartView, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, message, view)
	}
}
