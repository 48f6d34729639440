package model

import "github.com/bsv-blockchain/go-samplepay/pkg/bundle"

const emptyJSONArray = "[]"

// PaymentParams is the immutable snapshot of a PAY intent's extras.
type PaymentParams struct {
	MethodNames              []string          `json:"methodNames"`
	MethodData               map[string]string `json:"methodData"`
	MerchantName             string            `json:"merchantName"`
	TopLevelOrigin           string            `json:"topLevelOrigin"`
	TopLevelCertificateChain [][]byte          `json:"topLevelCertificateChain,omitempty"`
	PaymentRequestOrigin     string            `json:"paymentRequestOrigin"`
	Total                    *PaymentAmount    `json:"total,omitempty"`
	Modifiers                string            `json:"modifiers"`
	PaymentRequestID         string            `json:"paymentRequestId,omitempty"`
	PaymentOptions           PaymentOptions    `json:"paymentOptions"`
	HasPaymentOptions        bool              `json:"-"`
	ShippingOptions          []ShippingOption  `json:"shippingOptions,omitempty"`
}

// PaymentParamsFromBundle reads the PAY extras. It never fails: absent values take their
// defaults and a malformed total leaves Total nil.
func PaymentParamsFromBundle(extras bundle.Bundle) PaymentParams {
	methodNames, _ := extras.GetStringList("methodNames")
	methodData := extras.GetStringMap("methodData", emptyJSONArray)
	if methodData == nil {
		methodData = map[string]string{}
	}

	params := PaymentParams{
		MethodNames:              methodNames,
		MethodData:               methodData,
		MerchantName:             extras.GetStringOr("merchantName", ""),
		TopLevelOrigin:           extras.GetStringOr("topLevelOrigin", ""),
		TopLevelCertificateChain: extras.GetCertificateChain("topLevelCertificateChain"),
		PaymentRequestOrigin:     extras.GetStringOr("paymentRequestOrigin", ""),
		Modifiers:                extras.GetStringOr("modifiers", emptyJSONArray),
		PaymentRequestID:         extras.GetStringOr("paymentRequestId", ""),
	}

	if total, ok := extras.GetString("total"); ok {
		if amount, err := ParsePaymentAmount(total); err == nil {
			params.Total = &amount
		}
	}

	options, ok := extras.GetBundle("paymentOptions")
	params.PaymentOptions = PaymentOptionsFromBundle(options)
	params.HasPaymentOptions = ok

	params.ShippingOptions, _ = ShippingOptionsFromBundle(extras, "shippingOptions")
	return params
}

// IsReadyToPayParams is the snapshot of an IS_READY_TO_PAY inquiry's extras.
type IsReadyToPayParams struct {
	MethodNames              []string          `json:"methodNames"`
	MethodData               map[string]string `json:"methodData"`
	TopLevelOrigin           string            `json:"topLevelOrigin"`
	TopLevelCertificateChain [][]byte          `json:"topLevelCertificateChain,omitempty"`
	PaymentRequestOrigin     string            `json:"paymentRequestOrigin"`
}

func IsReadyToPayParamsFromBundle(extras bundle.Bundle) IsReadyToPayParams {
	methodNames, _ := extras.GetStringList("methodNames")
	methodData := extras.GetStringMap("methodData", emptyJSONArray)
	if methodData == nil {
		methodData = map[string]string{}
	}
	return IsReadyToPayParams{
		MethodNames:              methodNames,
		MethodData:               methodData,
		TopLevelOrigin:           extras.GetStringOr("topLevelOrigin", ""),
		TopLevelCertificateChain: extras.GetCertificateChain("topLevelCertificateChain"),
		PaymentRequestOrigin:     extras.GetStringOr("paymentRequestOrigin", ""),
	}
}

// SupportsOnly reports whether methodName is the one and only requested method.
func (p IsReadyToPayParams) SupportsOnly(methodName string) bool {
	return len(p.MethodNames) == 1 && p.MethodNames[0] == methodName
}
