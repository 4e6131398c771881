package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusReady, true},
		{OrderStatusServed, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusPending, false},
		{OrderStatusServed, OrderStatusPreparing, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusCancelled, true},
		{OrderStatusServed, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("bogus"), false},
	}
	for _, tc := range cases {
		o := &Order{Status: tc.from}
		assert.Equal(t, tc.allowed, o.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderIsActive(t *testing.T) {
	for _, s := range ActiveOrderStatuses {
		assert.True(t, (&Order{Status: s}).IsActive(), string(s))
	}
	assert.False(t, (&Order{Status: OrderStatusPreparing}).IsActive())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).IsActive())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).IsActive())
}

func TestValidateOrder(t *testing.T) {
	assert.Error(t, ValidateOrder(&Order{}))
	assert.Error(t, ValidateOrder(&Order{Items: []OrderItem{{MenuItemID: 1, Quantity: 0}}}))
	assert.Error(t, ValidateOrder(&Order{Items: []OrderItem{{MenuItemID: 1, Quantity: 1, UnitPrice: -1}}}))
	assert.NoError(t, ValidateOrder(&Order{Items: []OrderItem{{MenuItemID: 1, Quantity: 2, UnitPrice: 9.5}}}))
}

func TestNewOrderNumber(t *testing.T) {
	n := NewOrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))
	assert.Len(t, n, 12)
	assert.NotEqual(t, n, NewOrderNumber())
}

func TestOrderSubtotal(t *testing.T) {
	o := &Order{Items: []OrderItem{{TotalPrice: 10}, {TotalPrice: 5.5}}}
	assert.Equal(t, 15.5, o.Subtotal())
}
