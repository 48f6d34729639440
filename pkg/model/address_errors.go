package model

import (
	"strings"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
)

// AddressErrors carries the merchant's per-field validation errors for the shipping address.
// Empty fields have no error.
type AddressErrors struct {
	AddressLines      string `json:"addressLines,omitempty"`
	CountryCode       string `json:"countryCode,omitempty"`
	City              string `json:"city,omitempty"`
	DependentLocality string `json:"dependentLocality,omitempty"`
	Organization      string `json:"organization,omitempty"`
	Phone             string `json:"phone,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	Recipient         string `json:"recipient,omitempty"`
	Region            string `json:"region,omitempty"`
	SortingCode       string `json:"sortingCode,omitempty"`
}

func AddressErrorsFromBundle(b bundle.Bundle) AddressErrors {
	return AddressErrors{
		AddressLines:      b.GetStringOr("addressLines", ""),
		CountryCode:       b.GetStringOr("countryCode", ""),
		City:              b.GetStringOr("city", ""),
		DependentLocality: b.GetStringOr("dependentLocality", ""),
		Organization:      b.GetStringOr("organization", ""),
		Phone:             b.GetStringOr("phone", ""),
		PostalCode:        b.GetStringOr("postalCode", ""),
		Recipient:         b.GetStringOr("recipient", ""),
		Region:            b.GetStringOr("region", ""),
		SortingCode:       b.GetStringOr("sortingCode", ""),
	}
}

// String joins the non-empty errors in field order, each followed by a newline.
func (e AddressErrors) String() string {
	var sb strings.Builder
	for _, msg := range []string{
		e.AddressLines,
		e.CountryCode,
		e.City,
		e.DependentLocality,
		e.Organization,
		e.Phone,
		e.PostalCode,
		e.Recipient,
		e.Region,
		e.SortingCode,
	} {
		if msg != "" {
			sb.WriteString(msg)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
