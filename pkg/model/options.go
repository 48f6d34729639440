package model

import "github.com/bsv-blockchain/go-samplepay/pkg/bundle"

// DefaultShippingType is used when the merchant does not specify a shipping type.
const DefaultShippingType = "shipping"

// PaymentOptions lists what the merchant asks the payment app to collect.
type PaymentOptions struct {
	RequestPayerName  bool   `json:"requestPayerName"`
	RequestPayerPhone bool   `json:"requestPayerPhone"`
	RequestPayerEmail bool   `json:"requestPayerEmail"`
	RequestShipping   bool   `json:"requestShipping"`
	ShippingType      string `json:"shippingType"`
}

// DefaultPaymentOptions requests nothing and uses the default shipping type.
func DefaultPaymentOptions() PaymentOptions {
	return PaymentOptions{ShippingType: DefaultShippingType}
}

// PaymentOptionsFromBundle reads payment options, a nil bundle yields the defaults.
func PaymentOptionsFromBundle(b bundle.Bundle) PaymentOptions {
	if b == nil {
		return DefaultPaymentOptions()
	}
	return PaymentOptions{
		RequestPayerName:  b.GetBool("requestPayerName", false),
		RequestPayerPhone: b.GetBool("requestPayerPhone", false),
		RequestPayerEmail: b.GetBool("requestPayerEmail", false),
		RequestShipping:   b.GetBool("requestShipping", false),
		ShippingType:      b.GetStringOr("shippingType", DefaultShippingType),
	}
}

// RequireContact reports whether any payer detail is requested.
func (o PaymentOptions) RequireContact() bool {
	return o.RequestPayerName || o.RequestPayerPhone || o.RequestPayerEmail
}
