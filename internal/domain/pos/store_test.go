package pos

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrMergeMergesIntoSingleLine(t *testing.T) {
	s := NewLineItemStore(absolute())
	p := newProduct("Rice 1kg", "100", 10, true)

	first := s.AddOrMerge(p, 2, dec("0"))
	require.True(t, first.Added)
	assert.False(t, first.Merged)

	second := s.AddOrMerge(p, 3, dec("10"))
	require.True(t, second.Added)
	assert.True(t, second.Merged)
	assert.False(t, second.Clamped)

	require.Equal(t, 1, s.Len())
	line, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assertAmount(t, "10", line.RawDiscount)
	assertAmount(t, "450", line.EffectiveTotal())
}

func TestAddOrMergeClampsToStock(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Soap", "75", 3, true)

	res := s.AddOrMerge(p, 5, dec("0"))

	assert.True(t, res.Added)
	assert.True(t, res.Clamped)
	assert.Equal(t, 3, res.Line.Quantity)

	again := s.AddOrMerge(p, 1, dec("0"))
	assert.True(t, again.Clamped)
	assert.Equal(t, 3, again.Line.Quantity)
}

func TestAddOrMergeIgnoresStockForUntrackedProducts(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Service fee", "20", 0, false)

	res := s.AddOrMerge(p, 7, dec("0"))

	assert.True(t, res.Added)
	assert.False(t, res.Clamped)
	assert.Equal(t, 7, res.Line.Quantity)
}

func TestAddOrMergeOutOfStockAddsNothing(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Sugar", "50", 0, true)

	res := s.AddOrMerge(p, 1, dec("0"))

	assert.False(t, res.Added)
	assert.True(t, res.Clamped)
	assert.True(t, s.IsEmpty())
}

func TestAddOrMergeTreatsNonPositiveQuantityAsOne(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Tea", "30", 10, true)

	res := s.AddOrMerge(p, 0, dec("0"))
	assert.Equal(t, 1, res.Line.Quantity)

	res = s.AddOrMerge(p, -4, dec("0"))
	assert.Equal(t, 2, res.Line.Quantity)
}

func TestAddOrMergeKeepsPriceSnapshot(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Milk", "100", 10, true)
	s.AddOrMerge(p, 1, dec("0"))

	p.UnitPrice = dec("120")
	res := s.AddOrMerge(p, 1, dec("0"))

	assertAmount(t, "100", res.Line.UnitPriceAtAdd)
	assertAmount(t, "200", res.Line.EffectiveTotal())
}

func TestAddOrMergeClampsDiscount(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Bread", "80", 10, true)

	res := s.AddOrMerge(p, 1, dec("150"))

	assertAmount(t, "100", res.Line.RawDiscount)
	assertAmount(t, "0", res.Line.EffectiveUnitPrice)
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	s := NewLineItemStore(percentage())
	a := newProduct("A", "1", 5, true)
	b := newProduct("B", "2", 5, true)
	c := newProduct("C", "3", 5, true)
	s.AddOrMerge(a, 1, dec("0"))
	s.AddOrMerge(b, 1, dec("0"))
	s.AddOrMerge(c, 1, dec("0"))
	s.AddOrMerge(a, 1, dec("0"))

	s.Remove(b.ID)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, a.ID, lines[0].ProductID)
	assert.Equal(t, c.ID, lines[1].ProductID)
	_, ok := s.Get(c.ID)
	assert.True(t, ok)
}

func TestChangeQuantity(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Eggs", "25", 4, true)
	s.AddOrMerge(p, 2, dec("0"))

	up := s.ChangeQuantity(p.ID, 1)
	assert.True(t, up.Found)
	assert.Equal(t, 3, up.Line.Quantity)

	capped := s.ChangeQuantity(p.ID, 5)
	assert.True(t, capped.Clamped)
	assert.Equal(t, 4, capped.Line.Quantity)

	down := s.ChangeQuantity(p.ID, -1)
	assert.Equal(t, 3, down.Line.Quantity)

	gone := s.ChangeQuantity(p.ID, -3)
	assert.True(t, gone.Removed)
	assert.True(t, s.IsEmpty())
}

func TestChangeQuantityUnknownProduct(t *testing.T) {
	s := NewLineItemStore(percentage())
	res := s.ChangeQuantity(uuid.New(), 1)
	assert.False(t, res.Found)
	assert.Equal(t, uint64(0), s.Revision())
}

func TestSetDiscountAndReprice(t *testing.T) {
	s := NewLineItemStore(absolute())
	p := newProduct("Oil", "300", 10, true)
	s.AddOrMerge(p, 2, dec("0"))

	line, ok := s.SetDiscount(p.ID, dec("50"))
	require.True(t, ok)
	assertAmount(t, "250", line.EffectiveUnitPrice)

	line, ok = s.Reprice(p.ID, dec("40"))
	require.True(t, ok)
	assertAmount(t, "40", line.RawDiscount)
	assertAmount(t, "0", line.EffectiveUnitPrice)

	_, ok = s.SetDiscount(uuid.New(), dec("1"))
	assert.False(t, ok)
}

func TestRevisionBumpsOnMutation(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Salt", "10", 10, true)

	r0 := s.Revision()
	s.AddOrMerge(p, 1, dec("0"))
	r1 := s.Revision()
	s.SetDiscount(p.ID, dec("5"))
	r2 := s.Revision()
	s.Clear()
	r3 := s.Revision()

	assert.Less(t, r0, r1)
	assert.Less(t, r1, r2)
	assert.Less(t, r2, r3)
	assert.False(t, s.Remove(p.ID))
	assert.Equal(t, r3, s.Revision())
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewLineItemStore(percentage())
	p := newProduct("Flour", "60", 10, true)
	s.AddOrMerge(p, 1, dec("0"))

	lines := s.Lines()
	lines[0].Quantity = 99

	line, _ := s.Get(p.ID)
	assert.Equal(t, 1, line.Quantity)
}

func TestHugeQuantitiesSaturateInsteadOfRemoving(t *testing.T) {
	s := NewLineItemStore(percentage())
	fee := newProduct("Service fee", "20", 0, false)
	require.True(t, s.AddOrMerge(fee, 2, dec("0")).Added)

	merged := s.AddOrMerge(fee, math.MaxInt, dec("0"))
	require.True(t, merged.Added)
	assert.Equal(t, math.MaxInt, merged.Line.Quantity)
	require.Equal(t, 1, s.Len())

	changed := s.ChangeQuantity(fee.ID, math.MaxInt)
	assert.True(t, changed.Found)
	assert.False(t, changed.Removed)
	assert.Equal(t, 1, s.Len())
	line, ok := s.Get(fee.ID)
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, line.Quantity)
}

func TestHugeDeltaCapsTrackedLineAtStock(t *testing.T) {
	s := NewLineItemStore(percentage())
	rice := newProduct("Rice 1kg", "100", 10, true)
	require.True(t, s.AddOrMerge(rice, 2, dec("0")).Added)

	changed := s.ChangeQuantity(rice.ID, math.MaxInt)
	assert.False(t, changed.Removed)
	assert.True(t, changed.Clamped)
	assert.Equal(t, 10, changed.Line.Quantity)

	merged := s.AddOrMerge(rice, math.MaxInt, dec("0"))
	assert.True(t, merged.Clamped)
	assert.Equal(t, 10, merged.Line.Quantity)
	assert.Equal(t, 1, s.Len())

	removed := s.ChangeQuantity(rice.ID, math.MinInt)
	assert.True(t, removed.Removed)
	assert.Zero(t, s.Len())
}
