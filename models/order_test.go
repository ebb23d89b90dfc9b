package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"verified to processing", OrderStatusPaymentVerified, OrderStatusProcessing, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"delivered to refunded", OrderStatusDelivered, OrderStatusRefunded, true},
		{"processing can cancel", OrderStatusProcessing, OrderStatusCancelled, true},

		{"no skipping to delivered", OrderStatusPaymentVerified, OrderStatusDelivered, false},
		{"no going backwards", OrderStatusShipped, OrderStatusProcessing, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusProcessing, false},
		{"refunded is terminal", OrderStatusRefunded, OrderStatusDelivered, false},
		{"pending payment is not admin-driven", OrderStatusPendingPayment, OrderStatusPaymentVerified, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
