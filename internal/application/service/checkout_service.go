package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/apperror"
)

var ErrEmptyCart = apperror.NewBadRequestError("Cart is empty")

// CheckoutResult is returned after a sale was stored
type CheckoutResult struct {
	Sale    pos.ReceiptSale `json:"sale"`
	Receipt pos.ReceiptRows `json:"receipt"`
}

// CheckoutService submits a cart as a sale
type CheckoutService struct {
	carts     *CartService
	submitter pos.SaleSubmitter
	timeout   time.Duration
	currency  string
	log       zerolog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts *CartService, submitter pos.SaleSubmitter, timeout time.Duration, currency string, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		submitter: submitter,
		timeout:   timeout,
		currency:  currency,
		log:       log,
	}
}

// Checkout persists the cart and, on success, resets it for the next order.
//
// Only one checkout per cart may be outstanding; a second call fails with
// ErrCheckoutInProgress and cart edits are refused until the first returns.
// When the store fails or rejects the sale the cart is left untouched so the
// cashier can retry.
func (s *CheckoutService) Checkout(ctx context.Context, cartID, userID uuid.UUID) (*CheckoutResult, error) {
	sess, err := s.carts.session(cartID, userID)
	if err != nil {
		return nil, err
	}

	if !sess.checkingOut.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer sess.checkingOut.Store(false)

	payload, err := s.assemble(sess)
	if err != nil {
		return nil, err
	}

	logger := s.log.With().
		Str("cart_id", cartID.String()).
		Str("user_id", userID.String()).
		Int("items", len(payload.Items)).
		Str("total", payload.TotalAmount.StringFixed(2)).
		Logger()

	submitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.submitter.SubmitSale(submitCtx, payload)
	if err != nil {
		logger.Error().Err(err).Msg("checkout failed")
		return nil, apperror.NewRetryableError("Checkout failed, please retry", err)
	}
	if !result.OK() {
		logger.Warn().Str("reason", result.Reason).Msg("checkout rejected")
		return nil, apperror.NewConflictError(result.Reason)
	}

	sale := pos.ReceiptFromPayload(result.Sale, payload)

	sess.mu.Lock()
	sess.state.Reset()
	sess.touchedAt = s.carts.now()
	sess.mu.Unlock()

	logger.Info().
		Str("sale_id", sale.SaleID.String()).
		Str("invoice_no", sale.InvoiceNo).
		Msg("sale completed")

	return &CheckoutResult{
		Sale:    sale,
		Receipt: pos.Project(sale, s.currency),
	}, nil
}

// assemble snapshots the cart into a payload under the session lock
func (s *CheckoutService) assemble(sess *CartSession) (pos.SalePayload, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state.Store().IsEmpty() {
		return pos.SalePayload{}, ErrEmptyCart
	}

	totals := sess.state.Totals()
	if err := pos.Reconcile(totals); err != nil {
		s.log.Error().Err(err).Str("cart_id", sess.ID.String()).Msg("cart totals do not reconcile")
		return pos.SalePayload{}, fmt.Errorf("checkout cart %s: %w", sess.ID, err)
	}

	return pos.ToPersistablePayload(sess.state, totals), nil
}
