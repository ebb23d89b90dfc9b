package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartFindAndRemove(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}}

	item := cart.Find(2)
	require.NotNil(t, item)
	assert.Equal(t, uint(2), item.ProductID)

	assert.Nil(t, cart.Find(99))

	assert.True(t, cart.Remove(1))
	assert.False(t, cart.Remove(1))
	assert.Len(t, cart.Items, 1)
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Price: 2450000, Quantity: 2},
		{ProductID: 2, Price: 1800000, Quantity: 1},
	}}

	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, float64(2450000*2+1800000), cart.Subtotal())

	cart.Clear()
	assert.Equal(t, 0, cart.TotalItems())
	assert.Zero(t, cart.Subtotal())
}
