// Package updates implements the payment details update exchange between the payment app and the browser.
//
// The app pushes payment method, shipping option and shipping address changes to the browser's Service;
// the browser answers asynchronously through a Callback. The browser's service handle is bound to the
// identity of the first application attaching it (see Responder).
package updates

import (
	"context"
	"errors"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
)

var (
	// ErrIdentityConflict is returned when the identity claiming the update channel differs from the bound one.
	ErrIdentityConflict = errors.New("multiple callers are attempting to interact with this payment application: the identities of the application initiating the payment and receiving updates don't match")

	// ErrNotConnected is returned when no update service has been attached yet.
	ErrNotConnected = errors.New("payment details update service is not connected")

	// ErrCallbackNotFound is returned for unknown or already answered callbacks.
	ErrCallbackNotFound = errors.New("update callback not found")

	// ErrServiceUnavailable is returned when a change request could not be delivered to the browser.
	ErrServiceUnavailable = errors.New("payment details update service unavailable")
)

// Callback receives the browser's answer to a change request.
type Callback interface {
	// UpdateWith delivers the updated payment details.
	UpdateWith(ctx context.Context, details bundle.Bundle)
	// PaymentDetailsNotUpdated signals that the merchant did not change anything.
	PaymentDetailsNotUpdated(ctx context.Context)
}

// Service is the browser side of the exchange.
type Service interface {
	ChangePaymentMethod(ctx context.Context, methodData bundle.Bundle, callback Callback) error
	ChangeShippingOption(ctx context.Context, shippingOptionID string, callback Callback) error
	ChangeShippingAddress(ctx context.Context, shippingAddress bundle.Bundle, callback Callback) error
}
