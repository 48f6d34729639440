package server

import (
	"errors"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/middleware/httperror"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates/httpclient"
)

var (
	// ErrMalformedRequest is returned for request bodies that cannot be decoded.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrCallingPackageRequired is returned when an update exchange request does not name its calling package.
	ErrCallingPackageRequired = errors.New("calling package is required to interact with the update exchange")
)

func toHTTPError(err error) *httperror.Error {
	httpErr := &httperror.Error{
		Err:     err,
		Message: err.Error(),
	}

	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		httpErr.StatusCode = http.StatusNotFound
		httpErr.Code = httperror.CodeCheckoutNotFound
	case errors.Is(err, checkout.ErrSessionFinished):
		httpErr.StatusCode = http.StatusConflict
		httpErr.Code = httperror.CodeCheckoutFinished
	case errors.Is(err, checkout.ErrCallerNotAuthorized):
		httpErr.StatusCode = http.StatusForbidden
		httpErr.Code = httperror.CodeCallerNotAuthorized
	case errors.Is(err, ErrCallingPackageRequired):
		httpErr.StatusCode = http.StatusUnauthorized
		httpErr.Code = httperror.CodeCallerNotAuthorized
	case errors.Is(err, checkout.ErrUnsupportedCaller), errors.Is(err, updates.ErrIdentityConflict):
		httpErr.StatusCode = http.StatusConflict
		httpErr.Code = httperror.CodeUnsupportedCaller
	case errors.Is(err, checkout.ErrUpdateInProgress):
		httpErr.StatusCode = http.StatusConflict
		httpErr.Code = httperror.CodeUpdateInProgress
	case errors.Is(err, intent.ErrMalformedIntent):
		httpErr.StatusCode = http.StatusBadRequest
		httpErr.Code = httperror.CodeMalformedIntent
	case errors.Is(err, ErrMalformedRequest),
		errors.Is(err, model.ErrMalformedJSON),
		errors.Is(err, checkout.ErrUnknownShippingOption),
		errors.Is(err, checkout.ErrUnknownShippingAddress),
		errors.Is(err, httpclient.ErrInvalidServiceURL):
		httpErr.StatusCode = http.StatusBadRequest
		httpErr.Code = httperror.CodeMalformedRequest
	case errors.Is(err, updates.ErrServiceUnavailable):
		httpErr.StatusCode = http.StatusBadGateway
		httpErr.Code = httperror.CodeUpdateServiceUnavailable
	case errors.Is(err, updates.ErrCallbackNotFound):
		httpErr.StatusCode = http.StatusNotFound
		httpErr.Code = httperror.CodeCallbackNotFound
	default:
		httpErr.StatusCode = http.StatusInternalServerError
		httpErr.Code = httperror.CodeInternal
		httpErr.Message = "Internal Server Error"
	}

	return httpErr
}
