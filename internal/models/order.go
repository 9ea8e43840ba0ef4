package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment order.
// An order is created WAITING and moves exactly once to CONFIRMED or
// REJECTED when a validated gateway callback arrives. It never returns
// to WAITING.
type PaymentStatus string

const (
	StatusWaiting   PaymentStatus = "WAITING"
	StatusConfirmed PaymentStatus = "CONFIRMED"
	StatusRejected  PaymentStatus = "REJECTED"
)

// Order is the merchant-side record of a payment attempt.
type Order struct {
	ID          string          `json:"id"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	Status      PaymentStatus   `json:"status"`
	SuccessURL  string          `json:"success_url"`
	FailureURL  string          `json:"failure_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderNumber is the identifier sent to the gateway as ORDERNUMBER and
// MERORDERNUM, and cross-checked against callbacks.
func (o *Order) OrderNumber() string {
	return o.ID
}

// IsFinal reports whether the order already reached a terminal status.
func (o *Order) IsFinal() bool {
	return o.Status == StatusConfirmed || o.Status == StatusRejected
}
