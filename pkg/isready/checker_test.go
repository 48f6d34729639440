package isready_test

import (
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/isready"
	"github.com/stretchr/testify/assert"
)

var (
	trusted   = callerauth.Caller{Identity: callerauth.ApplicationIdentity{PackageName: callerauth.PackageChromeStable}, Authorized: true}
	untrusted = callerauth.Caller{Identity: callerauth.ApplicationIdentity{PackageName: "com.example.other"}}
)

func TestIsReadyToPay(t *testing.T) {
	validExtras := bundle.Bundle{
		"methodNames":    []any{constants.DefaultMethodName},
		"topLevelOrigin": "shop.example",
	}

	tests := map[string]struct {
		caller         callerauth.Caller
		extras         bundle.Bundle
		allowUntrusted bool
		expected       bool
	}{
		"trusted caller with valid params": {
			caller:   trusted,
			extras:   validExtras,
			expected: true,
		},
		"untrusted caller": {
			caller:   untrusted,
			extras:   validExtras,
			expected: false,
		},
		"untrusted caller allowed": {
			caller:         untrusted,
			extras:         validExtras,
			allowUntrusted: true,
			expected:       true,
		},
		"no method names": {
			caller:   trusted,
			extras:   bundle.Bundle{},
			expected: false,
		},
		"nil extras": {
			caller:   trusted,
			expected: false,
		},
		"other method": {
			caller:   trusted,
			extras:   bundle.Bundle{"methodNames": []any{"https://bobpay.xyz"}},
			expected: false,
		},
		"more than one method": {
			caller:         trusted,
			extras:         bundle.Bundle{"methodNames": []any{constants.DefaultMethodName, "https://bobpay.xyz"}},
			allowUntrusted: true,
			expected:       false,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			// given:
			checker := isready.New(
				isready.WithAllowUntrusted(test.allowUntrusted),
				isready.WithLogger(logging.NewTestLogger(t)),
			)

			// when:
			ready := checker.IsReadyToPay(t.Context(), test.caller, test.extras)

			// then:
			assert.Equal(t, test.expected, ready)
		})
	}
}

func TestCustomMethodName(t *testing.T) {
	// given:
	checker := isready.New(isready.WithMethodName("https://pay.example"))

	// expect:
	assert.True(t, checker.IsReadyToPay(t.Context(), trusted, bundle.Bundle{"methodNames": []any{"https://pay.example"}}))
	assert.False(t, checker.IsReadyToPay(t.Context(), trusted, bundle.Bundle{"methodNames": []any{constants.DefaultMethodName}}))
}
