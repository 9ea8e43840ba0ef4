package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderIsFinal(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		final  bool
	}{
		{StatusWaiting, false},
		{StatusConfirmed, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := &Order{Status: tt.status}
			assert.Equal(t, tt.final, order.IsFinal())
		})
	}
}

func TestOrderNumberMatchesID(t *testing.T) {
	order := &Order{
		ID:       "4fa2b8d1",
		Total:    decimal.RequireFromString("120.00"),
		Currency: "USD",
	}
	assert.Equal(t, "4fa2b8d1", order.OrderNumber())
}
