package model

import (
	"fmt"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bytedance/sonic"
)

// PaymentAmount is a currency code with a decimal string value. No arithmetic is performed on it.
type PaymentAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

func (a PaymentAmount) String() string {
	return a.Currency + " " + a.Value
}

// AsBundle returns the amount as a {currency, value} bundle.
func (a PaymentAmount) AsBundle() bundle.Bundle {
	return bundle.Bundle{"currency": a.Currency, "value": a.Value}
}

type paymentAmountJSON struct {
	Currency *string `json:"currency"`
	Value    *string `json:"value"`
}

func (j *paymentAmountJSON) toAmount() (PaymentAmount, error) {
	if j == nil {
		return PaymentAmount{}, fmt.Errorf("%w: missing amount", ErrMalformedJSON)
	}
	if j.Currency == nil {
		return PaymentAmount{}, fmt.Errorf("%w: missing currency", ErrMalformedJSON)
	}
	if j.Value == nil {
		return PaymentAmount{}, fmt.Errorf("%w: missing value", ErrMalformedJSON)
	}
	return PaymentAmount{Currency: *j.Currency, Value: *j.Value}, nil
}

// ParsePaymentAmount decodes a {"currency": ..., "value": ...} JSON object.
func ParsePaymentAmount(data string) (PaymentAmount, error) {
	var raw paymentAmountJSON
	if err := sonic.UnmarshalString(data, &raw); err != nil {
		return PaymentAmount{}, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return raw.toAmount()
}

// PaymentAmountFromBundle reads the currency and value keys of b.
func PaymentAmountFromBundle(b bundle.Bundle) (PaymentAmount, error) {
	currency, ok := b.GetString("currency")
	if !ok {
		return PaymentAmount{}, fmt.Errorf("%w: currency", ErrMissingField)
	}
	value, ok := b.GetString("value")
	if !ok {
		return PaymentAmount{}, fmt.Errorf("%w: value", ErrMissingField)
	}
	return PaymentAmount{Currency: currency, Value: value}, nil
}
