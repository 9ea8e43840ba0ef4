package payment

import (
	"net/http"

	"gpwebpay-gateway/internal/services/payment"
	"gpwebpay-gateway/internal/utils"
	"gpwebpay-gateway/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	notificationAccepted = "<PaymentNotification>Accepted</PaymentNotification>"
	notificationRejected = "<PaymentNotification>Rejected</PaymentNotification>"
)

// ReturnHandler handles the gateway result callback on
// /payments/return/:order_id. The gateway delivers the result either by
// redirecting the payer's browser (GET) or by a direct server call
// (POST); both carry the same signed field set.
type ReturnHandler struct {
	paymentService PaymentService
	useRedirect    bool
	logger         *zap.Logger
}

// NewReturnHandler creates a new return callback handler
func NewReturnHandler(paymentService PaymentService, useRedirect bool, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{
		paymentService: paymentService,
		useRedirect:    useRedirect,
		logger:         logger,
	}
}

// HandleReturn handles GET and POST /payments/return/:order_id requests
func (h *ReturnHandler) HandleReturn(c *gin.Context) {
	ctx := c.Request.Context()

	traceparent := utils.EnsureTraceparent(c.GetHeader("traceparent"))
	traceID := utils.ExtractTraceID(traceparent)
	orderID := c.Param("order_id")

	params, err := callbackParams(c)
	if err != nil {
		h.logger.Error("unreadable callback parameters", zap.Error(err), zap.String("trace_id", traceID))
		respondError(c, errors.NewDomainError(30003, "malformed callback", err.Error()))
		return
	}

	outcome, err := h.paymentService.ProcessReturn(ctx, orderID, params, traceID)
	if err != nil {
		h.logger.Error("callback processing failed",
			zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("trace_id", traceID),
		)
		respondError(c, err)
		return
	}

	if h.useRedirect && outcome.RedirectURL != "" {
		c.Redirect(http.StatusFound, outcome.RedirectURL)
		return
	}

	h.respondNotification(c, outcome)
}

func (h *ReturnHandler) respondNotification(c *gin.Context, outcome *payment.ReturnOutcome) {
	if outcome.Accepted {
		c.String(http.StatusOK, notificationAccepted)
		return
	}
	c.String(http.StatusForbidden, notificationRejected)
}

// callbackParams flattens the callback fields from the query string (GET
// redirect) or the form body (POST notification). Repeated keys keep the
// first value.
func callbackParams(c *gin.Context) (map[string]string, error) {
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
	}

	values := c.Request.URL.Query()
	if c.Request.Method == http.MethodPost {
		values = c.Request.PostForm
	}

	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params, nil
}
