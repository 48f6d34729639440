package model

import (
	"strings"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
)

// PaymentAddress is a shipping address the payer can choose from.
type PaymentAddress struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	AddressLines      []string `json:"addressLines"`
	CountryCode       string   `json:"countryCode"`
	Country           string   `json:"country"`
	City              string   `json:"city"`
	DependentLocality string   `json:"dependentLocality"`
	Organization      string   `json:"organization"`
	Phone             string   `json:"phone"`
	PostalCode        string   `json:"postalCode"`
	Recipient         string   `json:"recipient"`
	Region            string   `json:"region"`
	SortingCode       string   `json:"sortingCode"`
}

// AsBundle returns the address in the shape the browser expects. The id and label stay local.
func (a PaymentAddress) AsBundle() bundle.Bundle {
	lines := make([]string, len(a.AddressLines))
	copy(lines, a.AddressLines)
	return bundle.Bundle{
		"addressLines":      lines,
		"countryCode":       a.CountryCode,
		"country":           a.Country,
		"city":              a.City,
		"dependentLocality": a.DependentLocality,
		"organization":      a.Organization,
		"phone":             a.Phone,
		"postalCode":        a.PostalCode,
		"recipient":         a.Recipient,
		"region":            a.Region,
		"sortingCode":       a.SortingCode,
	}
}

func (a PaymentAddress) String() string {
	var sb strings.Builder
	sb.WriteString(a.Recipient + ", " + a.Organization + ", ")
	for _, line := range a.AddressLines {
		sb.WriteString(line + ", ")
	}
	if a.Region != "" {
		sb.WriteString(a.City + ", " + a.Region + ", " + a.PostalCode + ", " + a.Country + "\n")
	} else {
		sb.WriteString(a.DependentLocality + ", " + a.City + ", " + a.PostalCode + ", " + a.Country + "\n")
	}
	return sb.String()
}
