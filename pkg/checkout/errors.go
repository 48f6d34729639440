package checkout

import "errors"

var (
	// ErrNotPayIntent is returned for intents that are not PAY intents carrying payment options.
	ErrNotPayIntent = errors.New("intent is not a PAY intent with payment options")

	// ErrSessionNotFound is returned for unknown checkout ids.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrSessionFinished is returned when acting on a paid or canceled checkout.
	ErrSessionFinished = errors.New("checkout session already finished")

	// ErrCallerNotAuthorized is the user visible reason why paying is disabled for an untrusted caller.
	ErrCallerNotAuthorized = errors.New("the caller is not an authorized browser")

	// ErrUnsupportedCaller is the session failure raised when the update channel is claimed by another identity.
	ErrUnsupportedCaller = errors.New("unsupported caller")

	// ErrUpdateInProgress is returned when paying while the browser has not answered a change yet.
	ErrUpdateInProgress = errors.New("payment details update in progress")

	ErrUnknownShippingOption  = errors.New("unknown shipping option")
	ErrUnknownShippingAddress = errors.New("unknown shipping address")
)
