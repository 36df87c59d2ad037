package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPlaced,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPlaced:     {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  nil,
		OrderStatusCancelled:  nil,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPlaced.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("Teleported").Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("placed").Valid(), "status names are case sensitive")
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPlaced.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestValidPaymentMethod(t *testing.T) {
	for _, method := range []string{"COD", "ONLINE", "CARD", "UPI"} {
		assert.True(t, ValidPaymentMethod(method), method)
	}
	assert.False(t, ValidPaymentMethod("cod"))
	assert.False(t, ValidPaymentMethod("CHEQUE"))
	assert.False(t, ValidPaymentMethod(""))
}
