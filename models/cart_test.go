package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCartTotals(t *testing.T) {
	items := []CartItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}

	totals := ComputeCartTotals(items, 10)

	assert.Equal(t, 3, totals.TotalItems)
	assert.Equal(t, 25.0, totals.DiscountAmount)
	assert.Equal(t, 225.0, totals.TotalPrice)

	// Line subtotals are refreshed in place.
	assert.Equal(t, 200.0, items[0].Subtotal)
	assert.Equal(t, 50.0, items[1].Subtotal)
}

func TestComputeCartTotalsNoDiscount(t *testing.T) {
	items := []CartItem{{Price: 99.5, Quantity: 2}}

	totals := ComputeCartTotals(items, 0)

	assert.Equal(t, 2, totals.TotalItems)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 199.0, totals.TotalPrice)
}

func TestComputeCartTotalsFloorsAtZero(t *testing.T) {
	items := []CartItem{{Price: 100, Quantity: 1}}

	totals := ComputeCartTotals(items, 100)

	assert.Equal(t, 100.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TotalPrice)
}

func TestComputeCartTotalsEmpty(t *testing.T) {
	totals := ComputeCartTotals(nil, 15)

	assert.Equal(t, 0, totals.TotalItems)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TotalPrice)
}

func TestCartRecompute(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{Price: 10, Quantity: 3},
			{Price: 20, Quantity: 1},
		},
		Discount: 50,
	}

	cart.Recompute()

	assert.Equal(t, 4, cart.TotalItems)
	assert.Equal(t, 25.0, cart.DiscountAmount)
	assert.Equal(t, 25.0, cart.TotalPrice)
}
