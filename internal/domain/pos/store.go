package pos

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/pos-api/pkg/money"
)

// AddResult describes what AddOrMerge did.
type AddResult struct {
	Line    LineItem
	Added   bool // false when stock left nothing to add
	Merged  bool // an existing line for the product was updated
	Clamped bool // the requested quantity was lowered to the stock snapshot
}

// ChangeResult describes what ChangeQuantity did.
type ChangeResult struct {
	Line    LineItem
	Found   bool
	Removed bool
	Clamped bool
}

// LineItemStore is the ordered set of cart lines, at most one per product.
// Every mutation bumps Revision so derived totals can be cached safely.
type LineItemStore struct {
	policy   DiscountPolicy
	lines    []LineItem
	index    map[uuid.UUID]int
	revision uint64
}

func NewLineItemStore(policy DiscountPolicy) *LineItemStore {
	return &LineItemStore{
		policy: policy,
		index:  make(map[uuid.UUID]int),
	}
}

func (s *LineItemStore) Policy() DiscountPolicy { return s.policy }

// Revision increases on every effective mutation.
func (s *LineItemStore) Revision() uint64 { return s.revision }

func (s *LineItemStore) Len() int { return len(s.lines) }

func (s *LineItemStore) IsEmpty() bool { return len(s.lines) == 0 }

// Lines returns a copy of the lines in insertion order.
func (s *LineItemStore) Lines() []LineItem {
	out := make([]LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *LineItemStore) Get(productID uuid.UUID) (LineItem, bool) {
	i, ok := s.index[productID]
	if !ok {
		return LineItem{}, false
	}
	return s.lines[i], true
}

// AddOrMerge adds quantity units of product to the cart.
//
// Quantities below one are treated as one. When a line for the product
// already exists its quantity is increased, its stock snapshot refreshed and
// rawDiscount replaces the previous discount; the original price snapshot is
// kept. Tracked products never exceed their stock snapshot.
func (s *LineItemStore) AddOrMerge(product Product, quantity int, rawDiscount decimal.Decimal) AddResult {
	if quantity < 1 {
		quantity = 1
	}

	if i, ok := s.index[product.ID]; ok {
		line := s.lines[i]
		line.Stock = product.Stock
		line.TrackInventory = product.TrackInventory

		q, clamped := line.capQuantity(addQuantity(line.Quantity, quantity))
		if q < 1 {
			s.removeAt(i)
			return AddResult{Line: line, Merged: true, Clamped: true}
		}
		line.Quantity = q
		line.RawDiscount = s.policy.ClampLineDiscount(line.UnitPriceAtAdd, rawDiscount)
		line.EffectiveUnitPrice = s.policy.EffectiveUnitPrice(line.UnitPriceAtAdd, line.RawDiscount)
		s.lines[i] = line
		s.revision++
		return AddResult{Line: line, Added: true, Merged: true, Clamped: clamped}
	}

	price := money.Round(product.UnitPrice)
	if price.IsNegative() {
		price = zero
	}
	line := LineItem{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceAtAdd: price,
		Stock:          product.Stock,
		TrackInventory: product.TrackInventory,
	}
	q, clamped := line.capQuantity(quantity)
	if q < 1 {
		return AddResult{Line: line, Clamped: true}
	}
	line.Quantity = q
	line.RawDiscount = s.policy.ClampLineDiscount(price, rawDiscount)
	line.EffectiveUnitPrice = s.policy.EffectiveUnitPrice(price, line.RawDiscount)

	s.index[line.ProductID] = len(s.lines)
	s.lines = append(s.lines, line)
	s.revision++
	return AddResult{Line: line, Added: true, Clamped: clamped}
}

// ChangeQuantity adjusts a line's quantity by delta. A result at or below
// zero removes the line; tracked products are capped at their stock
// snapshot.
func (s *LineItemStore) ChangeQuantity(productID uuid.UUID, delta int) ChangeResult {
	i, ok := s.index[productID]
	if !ok {
		return ChangeResult{}
	}
	line := s.lines[i]

	next := addQuantity(line.Quantity, delta)
	if next <= 0 {
		s.removeAt(i)
		return ChangeResult{Line: line, Found: true, Removed: true}
	}

	q, clamped := line.capQuantity(next)
	if q < 1 {
		s.removeAt(i)
		return ChangeResult{Line: line, Found: true, Removed: true, Clamped: true}
	}
	if q == line.Quantity {
		return ChangeResult{Line: line, Found: true, Clamped: clamped}
	}
	line.Quantity = q
	s.lines[i] = line
	s.revision++
	return ChangeResult{Line: line, Found: true, Clamped: clamped}
}

// SetDiscount replaces a line's raw discount, clamping it to the policy's
// range, and recomputes the effective unit price.
func (s *LineItemStore) SetDiscount(productID uuid.UUID, rawDiscount decimal.Decimal) (LineItem, bool) {
	i, ok := s.index[productID]
	if !ok {
		return LineItem{}, false
	}
	line := s.lines[i]
	line.RawDiscount = s.policy.ClampLineDiscount(line.UnitPriceAtAdd, rawDiscount)
	line.EffectiveUnitPrice = s.policy.EffectiveUnitPrice(line.UnitPriceAtAdd, line.RawDiscount)
	s.lines[i] = line
	s.revision++
	return line, true
}

// Reprice replaces a line's price snapshot. The raw discount is re-clamped
// against the new price.
func (s *LineItemStore) Reprice(productID uuid.UUID, unitPrice decimal.Decimal) (LineItem, bool) {
	i, ok := s.index[productID]
	if !ok {
		return LineItem{}, false
	}
	price := money.Round(unitPrice)
	if price.IsNegative() {
		price = zero
	}
	line := s.lines[i]
	line.UnitPriceAtAdd = price
	line.RawDiscount = s.policy.ClampLineDiscount(price, line.RawDiscount)
	line.EffectiveUnitPrice = s.policy.EffectiveUnitPrice(price, line.RawDiscount)
	s.lines[i] = line
	s.revision++
	return line, true
}

// Remove drops the line for productID. Unknown products are a no-op.
func (s *LineItemStore) Remove(productID uuid.UUID) bool {
	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.removeAt(i)
	return true
}

func (s *LineItemStore) Clear() {
	s.lines = nil
	s.index = make(map[uuid.UUID]int)
	s.revision++
}

// addQuantity adds delta to q, saturating at the int bounds instead of
// wrapping.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	if delta < 0 && q < math.MinInt-delta {
		return math.MinInt
	}
	return q + delta
}

func (s *LineItemStore) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.index = make(map[uuid.UUID]int, len(s.lines))
	for j, l := range s.lines {
		s.index[l.ProductID] = j
	}
	s.revision++
}
