package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sangkips/pos-api/internal/domain/enum"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newProduct(name, price string, stock int, tracked bool) Product {
	return Product{
		ID:             uuid.New(),
		Name:           name,
		UnitPrice:      dec(price),
		Stock:          stock,
		Active:         true,
		TrackInventory: tracked,
	}
}

func absolute() DiscountPolicy   { return NewDiscountPolicy(enum.DiscountModeAbsolute) }
func percentage() DiscountPolicy { return NewDiscountPolicy(enum.DiscountModePercentage) }

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
