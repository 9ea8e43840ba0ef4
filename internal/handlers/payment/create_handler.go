package payment

import (
	"net/http"

	"gpwebpay-gateway/internal/services/payment"
	"gpwebpay-gateway/internal/utils"
	"gpwebpay-gateway/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateHandler handles POST /payments requests
type CreateHandler struct {
	paymentService PaymentService
	logger         *zap.Logger
}

// NewCreateHandler creates a new payment creation handler
func NewCreateHandler(paymentService PaymentService, logger *zap.Logger) *CreateHandler {
	return &CreateHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePaymentRequest is the JSON body accepted by POST /payments.
type CreatePaymentRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url" binding:"required"`
	FailureURL  string `json:"failure_url" binding:"required"`
	Locale      string `json:"locale"`
}

// CreatePaymentResponse is returned on successful order creation. The
// caller redirects the payer to GatewayURL.
type CreatePaymentResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	GatewayURL string `json:"gateway_url"`
}

// HandleCreate handles POST /payments requests
func (h *CreateHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	traceparent := utils.EnsureTraceparent(c.GetHeader("traceparent"))
	traceID := utils.ExtractTraceID(traceparent)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request", zap.Error(err), zap.String("trace_id", traceID))
		respondError(c, errors.NewDomainError(30001, "invalid request", err.Error()))
		return
	}

	total, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, errors.NewDomainError(30001, "invalid request", "amount is not a decimal number"))
		return
	}
	if !total.IsPositive() {
		respondError(c, errors.NewDomainError(30001, "invalid request", "amount must be positive"))
		return
	}

	result, err := h.paymentService.CreatePayment(ctx, &payment.CreatePaymentParams{
		Total:       total,
		Currency:    req.Currency,
		Description: req.Description,
		SuccessURL:  req.SuccessURL,
		FailureURL:  req.FailureURL,
		Locale:      req.Locale,
		TraceID:     traceID,
	})
	if err != nil {
		h.logger.Error("payment creation failed", zap.Error(err), zap.String("trace_id", traceID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatePaymentResponse{
		OrderID:    result.Order.ID,
		Status:     string(result.Order.Status),
		GatewayURL: result.GatewayURL,
	})
}

// respondError renders a DomainError as the error JSON body. Unknown
// errors are reported as internal.
func respondError(c *gin.Context, err error) {
	domainErr, ok := err.(*errors.DomainError)
	if !ok {
		domainErr = errors.NewDomainError(30020, "internal error", err.Error())
	}

	c.JSON(errors.GetHTTPStatus(domainErr), gin.H{
		"error": gin.H{
			"code":    domainErr.Code,
			"message": domainErr.Message,
			"details": domainErr.Details,
		},
	})
}
