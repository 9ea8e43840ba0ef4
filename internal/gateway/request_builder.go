package gateway

import (
	"fmt"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/internal/models"
	"gpwebpay-gateway/internal/utils"

	"go.uber.org/zap"
)

// RequestBuilder assembles and signs the CREATE_ORDER field set for the
// gateway's order endpoint. No network I/O happens here; the returned
// fields are handed to the transport layer as redirect query parameters.
type RequestBuilder struct {
	merchantNumber     string
	endpoint           string
	returnURL          string
	defaultDescription string
	defaultLanguage    string
	signer             *Signer
	logger             *zap.Logger
}

// NewRequestBuilder creates a request builder from gateway configuration.
func NewRequestBuilder(cfg config.GatewayConfig, signer *Signer, logger *zap.Logger) *RequestBuilder {
	return &RequestBuilder{
		merchantNumber:     cfg.MerchantNumber,
		endpoint:           utils.NormalizeURL(cfg.Endpoint),
		returnURL:          utils.NormalizeURL(cfg.ReturnURL),
		defaultDescription: cfg.DefaultDescription,
		defaultLanguage:    cfg.DefaultLanguage,
		signer:             signer,
		logger:             logger,
	}
}

// Build produces the signed outbound field map for an order. Amounts go
// out in minor units, the currency as its ISO numeric code. The DIGEST
// field carries the signature over the fixed outbound field order.
func (b *RequestBuilder) Build(order *models.Order, locale string) (map[string]string, error) {
	currency, err := CurrencyNumericCode(order.Currency)
	if err != nil {
		return nil, err
	}

	if locale == "" {
		locale = b.defaultLanguage
	}

	fields := map[string]string{
		FieldMerchantNumber: b.merchantNumber,
		FieldOperation:      OperationCreateOrder,
		FieldOrderNumber:    order.OrderNumber(),
		FieldMerOrderNum:    order.OrderNumber(),
		FieldAmount:         MinorUnits(order.Total),
		FieldCurrency:       currency,
		FieldDepositFlag:    "1",
		FieldURL:            b.orderReturnURL(order),
		FieldLang:           ResolveLanguage(locale),
		FieldMD:             orderMetadata(order),
	}

	description := order.Description
	if description == "" {
		description = b.defaultDescription
	}
	if description != "" {
		fields[FieldDescription] = description
	}

	digest := BuildDigest(fields, requestDigestOrder)
	signature, err := b.signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	fields[FieldDigest] = signature

	b.logger.Debug("outbound request built",
		zap.String("order_id", order.ID),
		zap.String("amount", fields[FieldAmount]),
		zap.String("currency", currency),
		zap.String("lang", fields[FieldLang]),
	)

	return fields, nil
}

// RedirectURL appends the signed field map to the gateway order endpoint.
func (b *RequestBuilder) RedirectURL(fields map[string]string) (string, error) {
	return utils.AddParamsToURL(b.endpoint, fields)
}

// orderReturnURL is the merchant return endpoint the gateway redirects the
// user back to, scoped to the order.
func (b *RequestBuilder) orderReturnURL(order *models.Order) string {
	return fmt.Sprintf("%s/%s", b.returnURL, order.ID)
}

// orderMetadata composes the MD field: enough to reconcile the callback
// with the order that produced it. The total keeps the scale it was
// created with, so "120.00" stays "120.00".
func orderMetadata(order *models.Order) string {
	places := -order.Total.Exponent()
	if places < 0 {
		places = 0
	}
	return fmt.Sprintf("PAYMENT-%s;%s;%s", order.ID, order.Total.StringFixed(places), order.Currency)
}
