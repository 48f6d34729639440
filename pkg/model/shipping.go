package model

import "github.com/bsv-blockchain/go-samplepay/pkg/bundle"

// ShippingOption is one of the shipping options offered by the merchant.
type ShippingOption struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	AmountCurrency string `json:"amountCurrency"`
	AmountValue    string `json:"amountValue"`
	Selected       bool   `json:"selected"`
}

// ShippingOptionFromBundle reads a shipping option. A missing amount bundle yields empty amount fields.
func ShippingOptionFromBundle(b bundle.Bundle) ShippingOption {
	option := ShippingOption{
		ID:       b.GetStringOr("id", ""),
		Label:    b.GetStringOr("label", ""),
		Selected: b.GetBool("selected", false),
	}
	if amount, ok := b.GetBundle("amount"); ok {
		option.AmountCurrency = amount.GetStringOr("currency", "")
		option.AmountValue = amount.GetStringOr("value", "")
	}
	return option
}

// ShippingOptionsFromBundle reads the array of shipping options under key.
// The second result reports whether the key was present at all.
func ShippingOptionsFromBundle(b bundle.Bundle, key string) ([]ShippingOption, bool) {
	items, ok := b.GetBundleArray(key)
	if !ok {
		return nil, false
	}
	options := make([]ShippingOption, 0, len(items))
	for _, item := range items {
		options = append(options, ShippingOptionFromBundle(item))
	}
	return options, true
}

// DefaultShippingOptionID returns the id of the first selected option, or "" when none is selected.
func DefaultShippingOptionID(options []ShippingOption) string {
	for _, option := range options {
		if option.Selected {
			return option.ID
		}
	}
	return ""
}
