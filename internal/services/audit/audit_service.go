package audit

import (
	"context"
	"time"

	"gpwebpay-gateway/internal/repository/audit"
	"gpwebpay-gateway/pkg/errors"

	"go.uber.org/zap"
)

// Repository interface for audit operations
type Repository interface {
	StorePaymentEventLog(ctx context.Context, log *audit.PaymentEventLog) error
}

// Service provides audit logging functionality
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new audit service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// PaymentEventParams contains parameters for payment event logging
type PaymentEventParams struct {
	OrderID    string
	Event      string
	Fields     map[string]string
	Outcome    string
	Reason     string
	PRCode     string
	SRCode     string
	ResultText string
	TraceID    string
}

// LogPaymentEvent records one payment lifecycle event in the audit trail.
func (s *Service) LogPaymentEvent(ctx context.Context, params *PaymentEventParams) error {
	log := &audit.PaymentEventLog{
		OrderID:    params.OrderID,
		Event:      params.Event,
		Fields:     params.Fields,
		Outcome:    params.Outcome,
		Reason:     params.Reason,
		PRCode:     params.PRCode,
		SRCode:     params.SRCode,
		ResultText: params.ResultText,
		TraceID:    params.TraceID,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.StorePaymentEventLog(ctx, log); err != nil {
		s.logger.Error("failed to log payment event", zap.Error(err))
		return errors.WrapDomainError(err, 30020, "audit logging failed", "failed to store log")
	}

	return nil
}
