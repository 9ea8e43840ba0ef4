package payment

import (
	"context"
	"encoding/json"
	"time"

	"gpwebpay-gateway/internal/gateway"
	"gpwebpay-gateway/internal/models"
	auditrepo "gpwebpay-gateway/internal/repository/audit"
	"gpwebpay-gateway/internal/services/audit"
	"gpwebpay-gateway/internal/utils"
	"gpwebpay-gateway/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderRepository persists order records and their status lifecycle.
type OrderRepository interface {
	Store(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order, status models.PaymentStatus) error
}

// IdempotencyService remembers processed callback outcomes.
type IdempotencyService interface {
	CheckProcessed(ctx context.Context, orderID string) ([]byte, bool, error)
	StoreProcessed(ctx context.Context, orderID string, outcomeBytes []byte) error
}

// AuditService records payment lifecycle events.
type AuditService interface {
	LogPaymentEvent(ctx context.Context, params *audit.PaymentEventParams) error
}

// RequestBuilder assembles the signed outbound field set.
type RequestBuilder interface {
	Build(order *models.Order, locale string) (map[string]string, error)
	RedirectURL(fields map[string]string) (string, error)
}

// Validator checks inbound gateway callbacks.
type Validator interface {
	Validate(order *models.Order, params map[string]string) *gateway.Result
}

// MetricsRecorder counts payment and signature events.
type MetricsRecorder interface {
	RecordPaymentCreated()
	RecordCallbackProcessed(outcome, reason string)
	RecordCallbackReplay()
	RecordSignatureGeneration()
	RecordSignatureVerification(ok bool)
}

// Service orchestrates the payment confirmation protocol: it creates
// orders with signed gateway requests and processes the gateway's result
// callbacks into status transitions.
type Service struct {
	orders      OrderRepository
	idempotency IdempotencyService
	auditor     AuditService
	builder     RequestBuilder
	validator   Validator
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewService creates a new payment service
func NewService(
	orders OrderRepository,
	idempotency IdempotencyService,
	auditor AuditService,
	builder RequestBuilder,
	validator Validator,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:      orders,
		idempotency: idempotency,
		auditor:     auditor,
		builder:     builder,
		validator:   validator,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreatePaymentParams describes a new payment order.
type CreatePaymentParams struct {
	Total       decimal.Decimal
	Currency    string
	Description string
	SuccessURL  string
	FailureURL  string
	Locale      string
	TraceID     string
}

// CreatePaymentResult carries the stored order and the gateway redirect.
type CreatePaymentResult struct {
	Order      *models.Order
	GatewayURL string
}

// CreatePayment creates a WAITING order, builds and signs the outbound
// CREATE_ORDER request, and returns the gateway redirect URL the user
// should be sent to.
func (s *Service) CreatePayment(ctx context.Context, params *CreatePaymentParams) (*CreatePaymentResult, error) {
	order := &models.Order{
		ID:          uuid.New().String(),
		Total:       params.Total,
		Currency:    params.Currency,
		Description: params.Description,
		Status:      models.StatusWaiting,
		SuccessURL:  params.SuccessURL,
		FailureURL:  params.FailureURL,
		CreatedAt:   time.Now().UTC(),
	}

	fields, err := s.builder.Build(order, params.Locale)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSignatureGeneration()

	gatewayURL, err := s.builder.RedirectURL(fields)
	if err != nil {
		return nil, errors.WrapDomainError(err, 30020, "internal error", "failed to build gateway url")
	}

	if err := s.orders.Store(ctx, order); err != nil {
		return nil, err
	}

	if err := s.auditor.LogPaymentEvent(ctx, &audit.PaymentEventParams{
		OrderID: order.ID,
		Event:   auditrepo.EventPaymentCreated,
		Fields:  fields,
		Outcome: "created",
		TraceID: params.TraceID,
	}); err != nil {
		s.logger.Warn("audit logging failed for created payment", zap.String("order_id", order.ID), zap.Error(err))
	}

	s.metrics.RecordPaymentCreated()
	s.logger.Info("payment created",
		zap.String("order_id", order.ID),
		zap.String("currency", order.Currency),
		zap.String("trace_id", params.TraceID),
	)

	return &CreatePaymentResult{Order: order, GatewayURL: gatewayURL}, nil
}

// ReturnOutcome is the processed result of a gateway callback, ready for
// the transport layer to render as a redirect or a notification body.
type ReturnOutcome struct {
	Accepted    bool                 `json:"accepted"`
	Reason      gateway.RejectReason `json:"reason,omitempty"`
	PRCode      string               `json:"prcode,omitempty"`
	SRCode      string               `json:"srcode,omitempty"`
	ResultText  string               `json:"result_text,omitempty"`
	RedirectURL string               `json:"redirect_url,omitempty"`
	Replayed    bool                 `json:"-"`
}

// ProcessReturn validates a gateway result callback for an order and
// applies the status transition exactly once. A replayed callback for an
// already processed order resolves to the stored outcome; an order that
// already reached a terminal status is never rewritten.
func (s *Service) ProcessReturn(ctx context.Context, orderID string, params map[string]string, traceID string) (*ReturnOutcome, error) {
	if stored, processed, err := s.idempotency.CheckProcessed(ctx, orderID); err == nil && processed {
		var outcome ReturnOutcome
		if err := json.Unmarshal(stored, &outcome); err == nil {
			outcome.Replayed = true
			s.metrics.RecordCallbackReplay()
			s.logger.Info("replayed callback resolved from store",
				zap.String("order_id", orderID),
				zap.String("trace_id", traceID),
			)
			return &outcome, nil
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(order, params)
	s.recordVerification(result)

	status := models.StatusRejected
	outcome := "rejected"
	if result.Accepted {
		status = models.StatusConfirmed
		outcome = "accepted"
	}

	if err := s.orders.UpdateStatus(ctx, order, status); err != nil {
		return nil, err
	}

	returnOutcome := &ReturnOutcome{
		Accepted:   result.Accepted,
		Reason:     result.Reason,
		PRCode:     result.PRCode,
		SRCode:     result.SRCode,
		ResultText: result.ResultText,
	}
	if redirectURL, err := s.redirectDestination(order, result); err == nil {
		returnOutcome.RedirectURL = redirectURL
	} else {
		s.logger.Warn("failed to build redirect destination", zap.String("order_id", order.ID), zap.Error(err))
	}

	if err := s.auditor.LogPaymentEvent(ctx, &audit.PaymentEventParams{
		OrderID:    order.ID,
		Event:      auditrepo.EventCallbackProcessed,
		Fields:     params,
		Outcome:    outcome,
		Reason:     string(result.Reason),
		PRCode:     result.PRCode,
		SRCode:     result.SRCode,
		ResultText: result.ResultText,
		TraceID:    traceID,
	}); err != nil {
		s.logger.Warn("audit logging failed for processed callback", zap.String("order_id", order.ID), zap.Error(err))
	}

	if outcomeBytes, err := json.Marshal(returnOutcome); err == nil {
		if err := s.idempotency.StoreProcessed(ctx, order.ID, outcomeBytes); err != nil {
			s.logger.Warn("failed to store processed callback outcome", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	s.metrics.RecordCallbackProcessed(outcome, string(result.Reason))
	s.logger.Info("callback processed",
		zap.String("order_id", order.ID),
		zap.String("outcome", outcome),
		zap.String("reason", string(result.Reason)),
		zap.String("trace_id", traceID),
	)

	return returnOutcome, nil
}

// redirectDestination resolves the user-facing redirect: the success URL
// on acceptance, otherwise the failure URL carrying the gateway-reported
// error parameters when available.
func (s *Service) redirectDestination(order *models.Order, result *gateway.Result) (string, error) {
	if result.Accepted {
		return order.SuccessURL, nil
	}

	errorParams := map[string]string{}
	if result.PRCode != "" {
		errorParams["errorPrCode"] = result.PRCode
	}
	if result.SRCode != "" {
		errorParams["errorSrCode"] = result.SRCode
	}
	if result.ResultText != "" {
		errorParams["errorText"] = result.ResultText
	}

	return utils.AddParamsToURL(order.FailureURL, errorParams)
}

// recordVerification counts signature verification results. Checks that
// never reached the signature layer (malformed callback, order mismatch)
// are not counted.
func (s *Service) recordVerification(result *gateway.Result) {
	switch result.Reason {
	case gateway.ReasonMalformedCallback, gateway.ReasonOrderMismatch:
		return
	case gateway.ReasonBadDigest, gateway.ReasonBadDigest1:
		s.metrics.RecordSignatureVerification(false)
	default:
		s.metrics.RecordSignatureVerification(true)
	}
}
