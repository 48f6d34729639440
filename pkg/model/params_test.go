package model_test

import (
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayExtras = `{
	"methodNames": ["https://sample-pay-web-app.firebaseapp.com"],
	"methodData": {"https://sample-pay-web-app.firebaseapp.com": "{\"supportedNetworks\":[\"visa\"]}"},
	"merchantName": "Shoe Shop",
	"topLevelOrigin": "shop.example",
	"paymentRequestOrigin": "pay.shop.example",
	"topLevelCertificateChain": [{"certificate": "AQID"}],
	"total": "{\"currency\":\"USD\",\"value\":\"25.00\"}",
	"paymentRequestId": "req-1",
	"paymentOptions": {"requestPayerEmail": true, "requestShipping": true},
	"shippingOptions": [
		{"id": "standard", "label": "Standard", "amount": {"currency": "USD", "value": "0.00"}, "selected": true},
		{"id": "express", "label": "Express", "amount": {"currency": "USD", "value": "5.00"}}
	]
}`

func TestPaymentParamsFromBundle(t *testing.T) {
	// given:
	extras, err := bundle.Parse([]byte(samplePayExtras))
	require.NoError(t, err)

	// when:
	params := model.PaymentParamsFromBundle(extras)

	// then:
	assert.Equal(t, []string{"https://sample-pay-web-app.firebaseapp.com"}, params.MethodNames)
	assert.Equal(t, `{"supportedNetworks":["visa"]}`, params.MethodData["https://sample-pay-web-app.firebaseapp.com"])
	assert.Equal(t, "Shoe Shop", params.MerchantName)
	assert.Equal(t, "shop.example", params.TopLevelOrigin)
	assert.Equal(t, "pay.shop.example", params.PaymentRequestOrigin)
	assert.Equal(t, [][]byte{{1, 2, 3}}, params.TopLevelCertificateChain)
	assert.Equal(t, "[]", params.Modifiers)
	assert.Equal(t, "req-1", params.PaymentRequestID)

	// and:
	require.NotNil(t, params.Total)
	assert.Equal(t, model.PaymentAmount{Currency: "USD", Value: "25.00"}, *params.Total)

	// and:
	assert.True(t, params.HasPaymentOptions)
	assert.True(t, params.PaymentOptions.RequestPayerEmail)
	assert.True(t, params.PaymentOptions.RequestShipping)
	assert.True(t, params.PaymentOptions.RequireContact())
	assert.Equal(t, model.DefaultShippingType, params.PaymentOptions.ShippingType)

	// and:
	require.Len(t, params.ShippingOptions, 2)
	assert.Equal(t, model.ShippingOption{
		ID:             "standard",
		Label:          "Standard",
		AmountCurrency: "USD",
		AmountValue:    "0.00",
		Selected:       true,
	}, params.ShippingOptions[0])
	assert.Equal(t, "standard", model.DefaultShippingOptionID(params.ShippingOptions))
}

func TestPaymentParamsDefaults(t *testing.T) {
	// when:
	params := model.PaymentParamsFromBundle(bundle.Bundle{"total": "not json"})

	// then:
	assert.Empty(t, params.MethodNames)
	assert.Empty(t, params.MethodData)
	assert.Nil(t, params.Total)
	assert.Equal(t, "[]", params.Modifiers)
	assert.False(t, params.HasPaymentOptions)
	assert.Equal(t, model.DefaultPaymentOptions(), params.PaymentOptions)
	assert.False(t, params.PaymentOptions.RequireContact())
	assert.Empty(t, params.ShippingOptions)
}

func TestIsReadyToPayParams(t *testing.T) {
	// given:
	extras, err := bundle.Parse([]byte(samplePayExtras))
	require.NoError(t, err)

	// when:
	params := model.IsReadyToPayParamsFromBundle(extras)

	// then:
	assert.Equal(t, "shop.example", params.TopLevelOrigin)
	assert.True(t, params.SupportsOnly("https://sample-pay-web-app.firebaseapp.com"))
	assert.False(t, params.SupportsOnly("https://other.example"))

	// and:
	assert.False(t, model.IsReadyToPayParamsFromBundle(bundle.Bundle{}).SupportsOnly("https://sample-pay-web-app.firebaseapp.com"))
}
