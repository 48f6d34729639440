// Package httperror carries HTTP status and machine readable code of a failed request
// and writes the JSON error envelope.
package httperror

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// Error codes
const (
	CodeCallerNotAuthorized      = "ERR_CALLER_NOT_AUTHORIZED"
	CodeUnsupportedCaller        = "ERR_UNSUPPORTED_CALLER"
	CodeMalformedIntent          = "ERR_MALFORMED_INTENT"
	CodeMalformedRequest         = "ERR_MALFORMED_REQUEST"
	CodeCheckoutNotFound         = "ERR_CHECKOUT_NOT_FOUND"
	CodeCheckoutFinished         = "ERR_CHECKOUT_FINISHED"
	CodeUpdateInProgress         = "ERR_UPDATE_IN_PROGRESS"
	CodeUpdateServiceUnavailable = "ERR_UPDATE_SERVICE_UNAVAILABLE"
	CodeCallbackNotFound         = "ERR_CALLBACK_NOT_FOUND"
	CodeInternal                 = "ERR_INTERNAL"
)

type Error struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Response is the JSON envelope written for every error.
type Response struct {
	Status      string `json:"status"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Write writes the error as the JSON envelope.
func (e *Error) Write(w http.ResponseWriter) error {
	return Respond(w, e.StatusCode, e.Code, e.Message)
}

// Respond writes a standardized error response.
func Respond(w http.ResponseWriter, status int, code, message string) error {
	body, err := sonic.Marshal(Response{
		Status:      "error",
		Code:        code,
		Description: message,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
