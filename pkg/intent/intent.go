// Package intent models the messages exchanged with the browser: an action with extras going in,
// and a result code with extras coming back.
package intent

import (
	"errors"
	"fmt"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bytedance/sonic"
)

// ErrMalformedIntent is returned when an intent body cannot be decoded.
var ErrMalformedIntent = errors.New("malformed intent")

// Intent is an action together with its extras.
type Intent struct {
	Action string        `json:"action"`
	Extras bundle.Bundle `json:"extras,omitempty"`
}

// Decode parses a JSON encoded intent.
func Decode(data []byte) (Intent, error) {
	var in Intent
	if err := sonic.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("%w: %w", ErrMalformedIntent, err)
	}
	return in, nil
}

// ResultCode mirrors the activity result codes understood by the browser.
type ResultCode int

const (
	ResultOK       ResultCode = -1
	ResultCanceled ResultCode = 0
)

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "RESULT_OK"
	case ResultCanceled:
		return "RESULT_CANCELED"
	default:
		return fmt.Sprintf("RESULT_%d", int(c))
	}
}

// Result is the intent returned to the browser when a payment flow finishes.
type Result struct {
	ResultCode ResultCode    `json:"resultCode"`
	Extras     bundle.Bundle `json:"extras,omitempty"`
}

// OK returns a successful result carrying extras.
func OK(extras bundle.Bundle) Result {
	return Result{ResultCode: ResultOK, Extras: extras}
}

// Canceled returns a result without extras.
func Canceled() Result {
	return Result{ResultCode: ResultCanceled}
}

// IsOK reports whether the payment completed.
func (r Result) IsOK() bool {
	return r.ResultCode == ResultOK
}
