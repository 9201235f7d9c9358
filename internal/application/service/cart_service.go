package service

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/internal/domain/enum"
	"github.com/sangkips/pos-api/internal/domain/pos"
	"github.com/sangkips/pos-api/pkg/apperror"
)

var (
	ErrCartNotFound       = apperror.NewNotFoundError("Cart")
	ErrCartItemNotFound   = apperror.NewNotFoundError("Cart item")
	ErrCheckoutInProgress = apperror.NewConflictError("Checkout already in progress for this cart")
	ErrProductUnavailable = apperror.NewAppError(http.StatusUnprocessableEntity, "Product is not available for sale")
	ErrInvalidPayment     = apperror.NewBadRequestError("Invalid payment method")
)

// CartSession owns the single OrderState of one open order. All access to
// state goes through mu; checkingOut is set for the duration of a submit.
type CartSession struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu          sync.Mutex
	state       *pos.OrderState
	touchedAt   time.Time
	checkingOut atomic.Bool
}

// CartView is the cart as returned to the till after every change
type CartView struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	DiscountMode  enum.DiscountMode  `json:"discount_mode"`
	Lines         []pos.LineItem     `json:"lines"`
	Totals        pos.TotalsSnapshot `json:"totals"`
	// Clamped is set when the last change was adjusted to fit stock or
	// discount bounds.
	Clamped bool `json:"clamped"`
	// Removed is set when the last change removed the line.
	Removed bool `json:"removed,omitempty"`
}

// CartService keeps the open cart sessions of this process
type CartService struct {
	catalog ProductSource
	policy  pos.DiscountPolicy
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*CartSession
}

// NewCartService creates a new cart service
func NewCartService(catalog ProductSource, mode enum.DiscountMode, ttl time.Duration, log zerolog.Logger) *CartService {
	return &CartService{
		catalog:  catalog,
		policy:   pos.NewDiscountPolicy(mode),
		ttl:      ttl,
		now:      time.Now,
		log:      log,
		sessions: make(map[uuid.UUID]*CartSession),
	}
}

// Open starts a new empty cart for the cashier
func (s *CartService) Open(userID uuid.UUID, customerID *uuid.UUID) *CartView {
	now := s.now()
	sess := &CartSession{
		ID:        uuid.New(),
		CreatedAt: now,
		state:     pos.NewOrderState(s.policy, userID),
		touchedAt: now,
	}
	sess.state.SetCustomer(customerID)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Debug().Str("cart_id", sess.ID.String()).Str("user_id", userID.String()).Msg("cart opened")
	return sess.view()
}

// Get returns the current cart
func (s *CartService) Get(cartID, userID uuid.UUID) (*CartView, error) {
	sess, err := s.session(cartID, userID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touchedAt = s.now()
	return sess.view(), nil
}

// AddItem adds a product or merges it into its existing line. The product is
// looked up before the cart is locked.
func (s *CartService) AddItem(ctx context.Context, cartID, userID, productID uuid.UUID, quantity int, discount decimal.Decimal) (*CartView, error) {
	if _, err := s.session(cartID, userID); err != nil {
		return nil, err
	}

	product, err := s.catalog.ProductForSale(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductUnavailable
	}

	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		res := state.Store().AddOrMerge(product, quantity, discount)
		view.Clamped = res.Clamped || (res.Added && !res.Line.RawDiscount.Equal(discount))
		view.Removed = !res.Added && res.Merged
		return nil
	})
}

// ChangeQuantity applies delta to a line. A result below one removes it.
func (s *CartService) ChangeQuantity(cartID, userID, productID uuid.UUID, delta int) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		res := state.Store().ChangeQuantity(productID, delta)
		if !res.Found {
			return ErrCartItemNotFound
		}
		view.Clamped = res.Clamped
		view.Removed = res.Removed
		return nil
	})
}

// SetDiscount replaces a line's discount. The stored value is clamped.
func (s *CartService) SetDiscount(cartID, userID, productID uuid.UUID, discount decimal.Decimal) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		line, ok := state.Store().SetDiscount(productID, discount)
		if !ok {
			return ErrCartItemNotFound
		}
		view.Clamped = !line.RawDiscount.Equal(discount)
		return nil
	})
}

// RemoveItem deletes a line
func (s *CartService) RemoveItem(cartID, userID, productID uuid.UUID) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		if !state.Store().Remove(productID) {
			return ErrCartItemNotFound
		}
		view.Removed = true
		return nil
	})
}

// SetOrderDiscount sets the order-level discount percentage, clamped to [0, 100]
func (s *CartService) SetOrderDiscount(cartID, userID uuid.UUID, pct decimal.Decimal) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		applied := state.SetOrderDiscountPercentage(pct)
		view.Clamped = !applied.Equal(pct)
		return nil
	})
}

// SetPayment records the payment method and, when amount is non-nil, the
// tendered amount. A nil amount clears the recorded payment.
func (s *CartService) SetPayment(cartID, userID uuid.UUID, method string, amount *decimal.Decimal) (*CartView, error) {
	m, ok := enum.ParsePaymentMethod(method)
	if !ok {
		return nil, ErrInvalidPayment
	}
	return s.mutate(cartID, userID, func(state *pos.OrderState, view *CartView) error {
		state.SetPaymentMethod(m)
		if amount == nil {
			state.ClearPaymentAmount()
			return nil
		}
		applied := state.SetPaymentAmount(*amount)
		view.Clamped = !applied.Equal(*amount)
		return nil
	})
}

// SetCustomer attaches or detaches the customer
func (s *CartService) SetCustomer(cartID, userID uuid.UUID, customerID *uuid.UUID) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, _ *CartView) error {
		state.SetCustomer(customerID)
		return nil
	})
}

// Cancel clears every line and resets discount and payment. The session
// stays open for the next order.
func (s *CartService) Cancel(cartID, userID uuid.UUID) (*CartView, error) {
	return s.mutate(cartID, userID, func(state *pos.OrderState, _ *CartView) error {
		state.Reset()
		return nil
	})
}

// Close discards the session. It claims the checkout flag and never releases
// it, so a checkout that already holds the session cannot start afterwards.
func (s *CartService) Close(cartID, userID uuid.UUID) error {
	sess, err := s.session(cartID, userID)
	if err != nil {
		return err
	}
	if !sess.checkingOut.CompareAndSwap(false, true) {
		return ErrCheckoutInProgress
	}

	s.mu.Lock()
	delete(s.sessions, cartID)
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops sessions idle for longer than the TTL and returns how
// many were removed. Sessions with a checkout in flight are kept.
func (s *CartService) PurgeExpired() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touchedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle && sess.checkingOut.CompareAndSwap(false, true) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// RunJanitor purges expired sessions every interval until ctx is done
func (s *CartService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PurgeExpired(); n > 0 {
				s.log.Info().Int("count", n).Msg("expired carts purged")
			}
		}
	}
}

// session finds an open cart owned by userID. Carts of other cashiers are
// reported as not found.
func (s *CartService) session(cartID, userID uuid.UUID) (*CartSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[cartID]
	s.mu.Unlock()
	if !ok || sess.state.UserID() != userID {
		return nil, ErrCartNotFound
	}
	return sess, nil
}

func (s *CartService) mutate(cartID, userID uuid.UUID, fn func(state *pos.OrderState, view *CartView) error) (*CartView, error) {
	sess, err := s.session(cartID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.checkingOut.Load() {
		return nil, ErrCheckoutInProgress
	}

	var flags CartView
	if err := fn(sess.state, &flags); err != nil {
		return nil, err
	}
	sess.touchedAt = s.now()

	view := sess.view()
	view.Clamped = flags.Clamped
	view.Removed = flags.Removed
	return view, nil
}

// view must be called with mu held
func (sess *CartSession) view() *CartView {
	state := sess.state
	return &CartView{
		ID:            sess.ID,
		UserID:        state.UserID(),
		CustomerID:    state.CustomerID(),
		PaymentMethod: state.PaymentMethod(),
		DiscountMode:  state.Store().Policy().Mode(),
		Lines:         state.Store().Lines(),
		Totals:        state.Totals(),
	}
}
