package payment

import (
	"context"

	"gpwebpay-gateway/internal/services/payment"
)

// PaymentService creates payment orders and processes gateway result
// callbacks.
type PaymentService interface {
	CreatePayment(ctx context.Context, params *payment.CreatePaymentParams) (*payment.CreatePaymentResult, error)
	ProcessReturn(ctx context.Context, orderID string, params map[string]string, traceID string) (*payment.ReturnOutcome, error)
}
