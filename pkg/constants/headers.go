package constants

// HTTP header constants used by the payment app transport.
const (
	// HeaderPrefix is the common prefix for all SamplePay headers
	HeaderPrefix = "X-SamplePay-"

	// HeaderCallingPackage carries the package name of the calling application,
	// as reported by the trusted front door (the equivalent of the binder calling uid).
	HeaderCallingPackage = HeaderPrefix + "Calling-Package"

	// HeaderCheckoutID is set on responses that create or refer to a checkout session
	HeaderCheckoutID = HeaderPrefix + "Checkout-Id"

	// HeaderResultCode carries the result code of a finished payment intent
	HeaderResultCode = HeaderPrefix + "Result-Code"
)
