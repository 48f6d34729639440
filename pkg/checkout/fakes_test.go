package checkout_test

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
)

var (
	chromeIdentity   = callerauth.ApplicationIdentity{PackageName: "com.android.chrome", Signatures: [][]byte{[]byte("chrome")}}
	intruderIdentity = callerauth.ApplicationIdentity{PackageName: "com.evil.app", Signatures: [][]byte{[]byte("evil")}}

	trustedChrome   = callerauth.Caller{Identity: chromeIdentity, Authorized: true}
	untrustedCaller = callerauth.Caller{Identity: intruderIdentity, Authorized: false}
)

func payIntent(extras bundle.Bundle) intent.Intent {
	return intent.Intent{Action: constants.ActionPay, Extras: extras}
}

func shippingExtras() bundle.Bundle {
	return bundle.Bundle{
		"methodNames":          []any{constants.DefaultMethodName},
		"merchantName":         "Shoe Shop",
		"topLevelOrigin":       "shop.example",
		"paymentRequestOrigin": "shop.example",
		"total":                `{"currency":"USD","value":"25.00"}`,
		"paymentOptions": map[string]any{
			"requestPayerName":  true,
			"requestPayerEmail": true,
			"requestShipping":   true,
		},
		"shippingOptions": []any{
			map[string]any{"id": "standard", "label": "Standard", "amount": map[string]any{"currency": "USD", "value": "0.00"}, "selected": true},
			map[string]any{"id": "express", "label": "Express", "amount": map[string]any{"currency": "USD", "value": "5.00"}},
		},
	}
}

type call struct {
	method  string
	payload any
	cb      updates.Callback
}

// fakeUpdateService records the change requests and optionally answers them inline.
// With callbacks set, unanswered callbacks are registered there the way the HTTP client does.
type fakeUpdateService struct {
	mu        sync.Mutex
	calls     []call
	answer    bundle.Bundle
	failure   error
	callbacks *updates.CallbackRegistry
}

func (f *fakeUpdateService) ChangePaymentMethod(ctx context.Context, methodData bundle.Bundle, cb updates.Callback) error {
	return f.record(ctx, "changePaymentMethod", methodData, cb)
}

func (f *fakeUpdateService) ChangeShippingOption(ctx context.Context, id string, cb updates.Callback) error {
	return f.record(ctx, "changeShippingOption", id, cb)
}

func (f *fakeUpdateService) ChangeShippingAddress(ctx context.Context, address bundle.Bundle, cb updates.Callback) error {
	return f.record(ctx, "changeShippingAddress", address, cb)
}

func (f *fakeUpdateService) record(ctx context.Context, method string, payload any, cb updates.Callback) error {
	f.mu.Lock()
	if f.failure != nil {
		f.mu.Unlock()
		return f.failure
	}
	f.calls = append(f.calls, call{method: method, payload: payload, cb: cb})
	answer := f.answer
	if answer == nil && f.callbacks != nil {
		f.callbacks.Register(chromeIdentity, cb)
	}
	f.mu.Unlock()

	if answer != nil {
		cb.UpdateWith(ctx, answer)
	}
	return nil
}

func (f *fakeUpdateService) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeUpdateService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
