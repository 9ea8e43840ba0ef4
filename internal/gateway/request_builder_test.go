package gateway

import (
	"net/url"
	"testing"
	"time"

	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/internal/models"
	"gpwebpay-gateway/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		MerchantNumber:     "123456789",
		Endpoint:           "https://test.3dsecure.gpwebpay.com/pgw/order.do/",
		ReturnURL:          "https://merchant.example.com/payments/return",
		DefaultDescription: "Order from example.com",
		DefaultLanguage:    "en",
	}
}

func testOrder(total, currency string) *models.Order {
	return &models.Order{
		ID:         "42",
		Total:      decimal.RequireFromString(total),
		Currency:   currency,
		Status:     models.StatusWaiting,
		SuccessURL: "https://merchant.example.com/thanks",
		FailureURL: "https://merchant.example.com/failed",
		CreatedAt:  time.Now(),
	}
}

func TestRequestBuilder_Build(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewRequestBuilder(testGatewayConfig(), signer, zap.NewNop())

	fields, err := builder.Build(testOrder("120.00", "USD"), "cs")

	require.NoError(t, err)
	assert.Equal(t, "123456789", fields[FieldMerchantNumber])
	assert.Equal(t, "CREATE_ORDER", fields[FieldOperation])
	assert.Equal(t, "42", fields[FieldOrderNumber])
	assert.Equal(t, "42", fields[FieldMerOrderNum])
	assert.Equal(t, "12000", fields[FieldAmount])
	assert.Equal(t, "840", fields[FieldCurrency])
	assert.Equal(t, "1", fields[FieldDepositFlag])
	assert.Equal(t, "https://merchant.example.com/payments/return/42", fields[FieldURL])
	assert.Equal(t, "cs", fields[FieldLang])
	assert.Equal(t, "PAYMENT-42;120.00;USD", fields[FieldMD])
	assert.NotEmpty(t, fields[FieldDigest])
}

func TestOrderMetadata_KeepsTotalScale(t *testing.T) {
	tests := []struct {
		total string
		md    string
	}{
		{"120.00", "PAYMENT-42;120.00;USD"},
		{"120.50", "PAYMENT-42;120.50;USD"},
		{"120.5", "PAYMENT-42;120.5;USD"},
		{"120", "PAYMENT-42;120;USD"},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.md, orderMetadata(testOrder(tt.total, "USD")))
		})
	}
}

func TestRequestBuilder_Build_DigestVerifies(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewRequestBuilder(testGatewayConfig(), signer, zap.NewNop())

	fields, err := builder.Build(testOrder("120.00", "USD"), "")
	require.NoError(t, err)

	digest := BuildDigest(fields, requestDigestOrder)
	assert.True(t, signer.Verify(digest, fields[FieldDigest]))
}

func TestRequestBuilder_Build_UnsupportedCurrency(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewRequestBuilder(testGatewayConfig(), signer, zap.NewNop())

	fields, err := builder.Build(testOrder("120.00", "XYZ"), "en")

	require.Error(t, err)
	assert.Nil(t, fields)
	domainErr, ok := err.(*errors.DomainError)
	require.True(t, ok)
	assert.Equal(t, 30002, domainErr.Code)
}

func TestRequestBuilder_Build_DescriptionFallback(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewRequestBuilder(testGatewayConfig(), signer, zap.NewNop())

	order := testOrder("10.00", "EUR")
	fields, err := builder.Build(order, "en")
	require.NoError(t, err)
	assert.Equal(t, "Order from example.com", fields[FieldDescription])

	order.Description = "Concert ticket"
	fields, err = builder.Build(order, "en")
	require.NoError(t, err)
	assert.Equal(t, "Concert ticket", fields[FieldDescription])
}

func TestRequestBuilder_Build_NoDescriptionOmitsField(t *testing.T) {
	signer := newTestSigner(t)
	cfg := testGatewayConfig()
	cfg.DefaultDescription = ""
	builder := NewRequestBuilder(cfg, signer, zap.NewNop())

	fields, err := builder.Build(testOrder("10.00", "EUR"), "en")

	require.NoError(t, err)
	_, present := fields[FieldDescription]
	assert.False(t, present)

	// The digest must still verify with the field omitted, not empty.
	digest := BuildDigest(fields, requestDigestOrder)
	assert.True(t, signer.Verify(digest, fields[FieldDigest]))
}

func TestRequestBuilder_Build_LocaleFallbacks(t *testing.T) {
	signer := newTestSigner(t)
	cfg := testGatewayConfig()
	cfg.DefaultLanguage = "de"
	builder := NewRequestBuilder(cfg, signer, zap.NewNop())

	fields, err := builder.Build(testOrder("10.00", "EUR"), "")
	require.NoError(t, err)
	assert.Equal(t, "de", fields[FieldLang])

	fields, err = builder.Build(testOrder("10.00", "EUR"), "zz-ZZ")
	require.NoError(t, err)
	assert.Equal(t, "en", fields[FieldLang])
}

func TestRequestBuilder_RedirectURL(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewRequestBuilder(testGatewayConfig(), signer, zap.NewNop())

	fields, err := builder.Build(testOrder("120.00", "USD"), "en")
	require.NoError(t, err)

	redirectURL, err := builder.RedirectURL(fields)
	require.NoError(t, err)

	parsed, err := url.Parse(redirectURL)
	require.NoError(t, err)
	assert.Equal(t, "test.3dsecure.gpwebpay.com", parsed.Host)
	assert.Equal(t, "/pgw/order.do", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, fields[FieldDigest], query.Get(FieldDigest))
	assert.Equal(t, "12000", query.Get(FieldAmount))
	assert.Equal(t, "CREATE_ORDER", query.Get(FieldOperation))
}
