package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemID_UnmarshalNumberAndString(t *testing.T) {
	var ids []ItemID
	require.NoError(t, json.Unmarshal([]byte(`[49839206859071, "abc", 7]`), &ids))

	assert.Equal(t, []ItemID{"49839206859071", "abc", "7"}, ids)
}

func TestItemID_RejectsObjects(t *testing.T) {
	var id ItemID
	assert.Error(t, json.Unmarshal([]byte(`{"id": 1}`), &id))
}

func sampleCart() *Cart {
	return &Cart{
		Items: []CartItem{
			{ID: "1", Title: "Mug", Price: 50000, Quantity: 2, QuantityRule: QuantityRule{Min: 1}},
			{ID: "2", Title: "Plate", Price: 1250, Quantity: 4, QuantityRule: QuantityRule{Min: 2}},
		},
	}
}

func TestCart_Recalculate(t *testing.T) {
	cart := sampleCart()
	cart.Recalculate()

	assert.Equal(t, int64(105000), cart.ItemsSubtotalPrice)
	assert.Equal(t, cart.ItemsSubtotalPrice, cart.OriginalTotalPrice)
}

func TestCart_Normalize(t *testing.T) {
	cart := sampleCart()
	cart.Items[0].QuantityRule.Min = 0

	require.NoError(t, cart.Normalize())
	assert.Equal(t, 1, cart.Items[0].QuantityRule.Min)
}

func TestCart_NormalizeRejectsMalformed(t *testing.T) {
	tests := map[string]func(c *Cart){
		"missing items":  func(c *Cart) { c.Items = nil },
		"empty id":       func(c *Cart) { c.Items[0].ID = "" },
		"duplicate id":   func(c *Cart) { c.Items[1].ID = "1" },
		"negative price": func(c *Cart) { c.Items[0].Price = -1 },
		"zero quantity":  func(c *Cart) { c.Items[1].Quantity = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cart := sampleCart()
			mutate(cart)
			assert.Error(t, cart.Normalize())
		})
	}
}

func TestCart_NormalizeAcceptsEmptyCart(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	assert.NoError(t, cart.Normalize())
}

func TestCart_CloneIsDeep(t *testing.T) {
	cart := sampleCart()
	clone := cart.Clone()
	clone.Items[0].Quantity = 9

	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_IndexOf(t *testing.T) {
	cart := sampleCart()

	idx, ok := cart.IndexOf("2")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = cart.IndexOf("missing")
	assert.False(t, ok)
}

func TestCart_MaxQuantity(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ID: "1", Price: 50000, Quantity: 2},
		{ID: "2", Price: 1000, Quantity: 3},
		{ID: "free", Price: 0, Quantity: 1},
	}}

	assert.Equal(t, int((math.MaxInt64-3000)/50000), cart.MaxQuantity(0))
	assert.Equal(t, int((math.MaxInt64-100000)/1000), cart.MaxQuantity(1))
	assert.Equal(t, math.MaxInt, cart.MaxQuantity(2))
}

func TestCart_NormalizeRejectsOverflowingTotal(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ID: "1", Price: math.MaxInt64 / 2, Quantity: 1},
		{ID: "2", Price: math.MaxInt64 / 2, Quantity: 2},
	}}

	assert.ErrorContains(t, cart.Normalize(), "overflows")
}
