package checkout

import (
	"slices"

	"github.com/bsv-blockchain/go-samplepay/pkg/model"
)

// SampleAddresses returns the shipping addresses offered to every payer.
func SampleAddresses() []model.PaymentAddress {
	return []model.PaymentAddress{
		{
			ID:           "canada_address",
			Label:        "Canada",
			AddressLines: []string{"111 Richmond st. West #12"},
			CountryCode:  "CA",
			Country:      "Canada",
			City:         "Toronto",
			Organization: "Google",
			Phone:        "+14169158200",
			PostalCode:   "M5H2G4",
			Recipient:    "John Smith",
			Region:       "Ontario",
		},
		{
			ID:           "us_address",
			Label:        "US",
			AddressLines: []string{"1875 Explorer St #1000"},
			CountryCode:  "US",
			Country:      "United States",
			City:         "Reston",
			Organization: "Google",
			Phone:        "+12023705600",
			PostalCode:   "20190",
			Recipient:    "John Smith",
			Region:       "Virginia",
		},
		{
			ID:                "uk_address",
			Label:             "UK",
			AddressLines:      []string{"1-13 St Giles High St"},
			CountryCode:       "UK",
			Country:           "United Kingdom",
			City:              "London",
			DependentLocality: "West End",
			Organization:      "Google",
			Phone:             "+442070313000",
			PostalCode:        "WC2H 8AG",
			Recipient:         "John Smith",
		},
	}
}

func findAddress(addresses []model.PaymentAddress, id string) (model.PaymentAddress, bool) {
	idx := slices.IndexFunc(addresses, func(a model.PaymentAddress) bool { return a.ID == id })
	if idx < 0 {
		return model.PaymentAddress{}, false
	}
	return addresses[idx], true
}

func hasShippingOption(options []model.ShippingOption, id string) bool {
	return slices.ContainsFunc(options, func(o model.ShippingOption) bool { return o.ID == id })
}
