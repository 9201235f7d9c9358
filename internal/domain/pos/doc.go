// Package pos is the order pricing engine of the point of sale.
//
// A LineItemStore holds the cart lines, a DiscountPolicy turns raw per-line
// discounts into effective unit prices, and ComputeTotals derives the full
// totals breakdown from the lines plus the order-level inputs kept on an
// OrderState. The same TotalsSnapshot feeds the live cart view, the
// persisted sale (ToPersistablePayload) and the printed receipt (Project),
// so the three can never disagree.
//
// Nothing in this package blocks or is safe for concurrent use; callers
// serialize access to an OrderState.
package pos
