package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// PaymentItem is a labelled amount.
type PaymentItem struct {
	Label  string        `json:"label"`
	Amount PaymentAmount `json:"amount"`
}

// PaymentDetails holds the total and the display items of a payment request.
type PaymentDetails struct {
	Total        PaymentItem   `json:"total"`
	DisplayItems []PaymentItem `json:"displayItems,omitempty"`
}

type paymentItemJSON struct {
	Label  *string            `json:"label"`
	Amount *paymentAmountJSON `json:"amount"`
}

func (j *paymentItemJSON) toItem() (PaymentItem, error) {
	if j == nil {
		return PaymentItem{}, fmt.Errorf("%w: missing item", ErrMalformedJSON)
	}
	if j.Label == nil {
		return PaymentItem{}, fmt.Errorf("%w: missing label", ErrMalformedJSON)
	}
	amount, err := j.Amount.toAmount()
	if err != nil {
		return PaymentItem{}, err
	}
	return PaymentItem{Label: *j.Label, Amount: amount}, nil
}

type paymentDetailsJSON struct {
	Total        *paymentItemJSON  `json:"total"`
	DisplayItems []paymentItemJSON `json:"displayItems"`
}

// ParsePaymentDetails decodes payment details JSON. The total is required, display items are optional.
func ParsePaymentDetails(data string) (PaymentDetails, error) {
	var raw paymentDetailsJSON
	if err := sonic.UnmarshalString(data, &raw); err != nil {
		return PaymentDetails{}, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	total, err := raw.Total.toItem()
	if err != nil {
		return PaymentDetails{}, fmt.Errorf("total: %w", err)
	}

	details := PaymentDetails{Total: total}
	for i := range raw.DisplayItems {
		item, err := raw.DisplayItems[i].toItem()
		if err != nil {
			return PaymentDetails{}, fmt.Errorf("displayItems[%d]: %w", i, err)
		}
		details.DisplayItems = append(details.DisplayItems, item)
	}
	return details, nil
}
