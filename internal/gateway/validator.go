package gateway

import (
	"gpwebpay-gateway/internal/models"

	"go.uber.org/zap"
)

// RejectReason classifies why an inbound result was not accepted.
type RejectReason string

const (
	ReasonMalformedCallback RejectReason = "MALFORMED_CALLBACK"
	ReasonOrderMismatch     RejectReason = "ORDER_MISMATCH"
	ReasonBadDigest         RejectReason = "BAD_DIGEST"
	ReasonBadDigest1        RejectReason = "BAD_DIGEST1"
	ReasonPaymentDeclined   RejectReason = "PAYMENT_DECLINED"
	ReasonUnrecognizedCode  RejectReason = "UNRECOGNIZED_CODE"
)

// Result is the validated outcome of a gateway callback.
type Result struct {
	Accepted   bool
	Reason     RejectReason
	PRCode     string
	SRCode     string
	ResultText string
	Category   string
}

// Validator checks the authenticity and outcome of the gateway's payment
// result callback. Both DIGEST and DIGEST1 must verify before PRCODE is
// trusted; an unverified result code must never drive a status transition.
type Validator struct {
	merchantNumber string
	signer         *Signer
	logger         *zap.Logger
}

// NewValidator creates a callback validator for one merchant identity.
func NewValidator(merchantNumber string, signer *Signer, logger *zap.Logger) *Validator {
	return &Validator{
		merchantNumber: merchantNumber,
		signer:         signer,
		logger:         logger,
	}
}

// Validate runs the full validation pipeline over the callback parameters:
// required-field presence, order identity, both signature layers, then
// result-code classification. Empty parameter values count as absent.
func (v *Validator) Validate(order *models.Order, params map[string]string) *Result {
	result := &Result{
		PRCode:     params[FieldPRCode],
		SRCode:     params[FieldSRCode],
		ResultText: params[FieldResultText],
	}

	for _, name := range requiredCallbackFields {
		if params[name] == "" {
			v.logger.Warn("callback missing required field",
				zap.String("order_id", order.ID),
				zap.String("field", name),
			)
			result.Reason = ReasonMalformedCallback
			return result
		}
	}

	if params[FieldOrderNumber] != order.OrderNumber() {
		v.logger.Warn("callback order number mismatch",
			zap.String("order_id", order.ID),
			zap.String("ordernumber", params[FieldOrderNumber]),
		)
		result.Reason = ReasonOrderMismatch
		return result
	}

	digest := BuildDigest(params, resultDigestOrder)
	digest1 := digest + "|" + v.merchantNumber

	// Both layers are verified independently so diagnostics can tell which
	// one failed; neither is optional.
	digestOK := v.signer.Verify(digest, params[FieldDigest])
	digest1OK := v.signer.Verify(digest1, params[FieldDigest1])

	if !digestOK || !digest1OK {
		v.logger.Warn("callback signature verification failed",
			zap.String("order_id", order.ID),
			zap.Bool("digest_ok", digestOK),
			zap.Bool("digest1_ok", digest1OK),
		)
		if !digestOK {
			result.Reason = ReasonBadDigest
		} else {
			result.Reason = ReasonBadDigest1
		}
		return result
	}

	if result.PRCode == PRCodeSuccess {
		result.Accepted = true
		return result
	}

	if category, known := PRCodeCategory(result.PRCode); known {
		result.Reason = ReasonPaymentDeclined
		result.Category = category
	} else {
		result.Reason = ReasonUnrecognizedCode
	}

	v.logger.Info("callback reported payment failure",
		zap.String("order_id", order.ID),
		zap.String("prcode", result.PRCode),
		zap.String("srcode", result.SRCode),
		zap.String("category", result.Category),
	)

	return result
}
