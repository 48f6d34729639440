package model

import "github.com/bsv-blockchain/go-samplepay/pkg/bundle"

// PaymentDetailsUpdate is what the browser pushes back after the merchant reacted to a change.
// Nil fields were not part of the update.
type PaymentDetailsUpdate struct {
	Total               *PaymentAmount   `json:"total,omitempty"`
	ShippingOptions     []ShippingOption `json:"shippingOptions,omitempty"`
	HasShippingOptions  bool             `json:"-"`
	Error               *string          `json:"error,omitempty"`
	PaymentMethodErrors *string          `json:"stringifiedPaymentMethodErrors,omitempty"`
	AddressErrors       *AddressErrors   `json:"addressErrors,omitempty"`
}

// PaymentDetailsUpdateFromBundle reads an update. A total bundle lacking currency or value is ignored.
func PaymentDetailsUpdateFromBundle(b bundle.Bundle) PaymentDetailsUpdate {
	var update PaymentDetailsUpdate

	if total, ok := b.GetBundle("total"); ok {
		if amount, err := PaymentAmountFromBundle(total); err == nil {
			update.Total = &amount
		}
	}

	update.ShippingOptions, update.HasShippingOptions = ShippingOptionsFromBundle(b, "shippingOptions")

	if msg, ok := b.GetString("error"); ok {
		update.Error = &msg
	}
	if msg, ok := b.GetString("stringifiedPaymentMethodErrors"); ok {
		update.PaymentMethodErrors = &msg
	}
	if errs, ok := b.GetBundle("addressErrors"); ok {
		addressErrors := AddressErrorsFromBundle(errs)
		update.AddressErrors = &addressErrors
	}
	return update
}
