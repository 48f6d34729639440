package constants

const (
	// PayPath receives the PAY intent from the browser
	PayPath = "/pay"

	// IsReadyToPayPath answers the IS_READY_TO_PAY inquiry
	IsReadyToPayPath = "/is-ready-to-pay"

	// CheckoutPath is the prefix of all checkout session routes
	CheckoutPath = "/checkout"

	// UpdateServicePath is where the browser attaches its payment details update service
	UpdateServicePath = "/payment-details-update/service"

	// UpdateCallbacksPath is the prefix of the update callback routes called by the browser
	UpdateCallbacksPath = "/payment-details-update/callbacks"
)

// Paths of the browser side payment details update service, relative to the service URL.
const (
	ChangePaymentMethodPath   = "/change-payment-method"
	ChangeShippingOptionPath  = "/change-shipping-option"
	ChangeShippingAddressPath = "/change-shipping-address"
)
