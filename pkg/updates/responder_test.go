package updates_test

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chrome   = callerauth.ApplicationIdentity{PackageName: "com.android.chrome", Signatures: [][]byte{[]byte("chrome")}}
	intruder = callerauth.ApplicationIdentity{PackageName: "com.evil.app", Signatures: [][]byte{[]byte("evil")}}
	spoofed  = callerauth.ApplicationIdentity{PackageName: "com.android.chrome", Signatures: [][]byte{[]byte("evil")}}
)

func TestResponderFirstBinderWins(t *testing.T) {
	// given:
	responder := updates.NewResponder(logging.NewTestLogger(t))
	service := &noopService{name: "chrome"}

	// when:
	err := responder.SetPaymentDetailsUpdateService(chrome, service)

	// then:
	require.NoError(t, err)

	// and:
	got, err := responder.UpdateService(chrome)
	require.NoError(t, err)
	assert.Same(t, service, got)

	t.Run("second distinct identity cannot attach", func(t *testing.T) {
		// when:
		err := responder.SetPaymentDetailsUpdateService(intruder, &noopService{name: "intruder"})

		// then:
		require.ErrorIs(t, err, updates.ErrIdentityConflict)

		// and:
		got, err := responder.UpdateService(chrome)
		require.NoError(t, err)
		assert.Same(t, service, got)
	})

	t.Run("same package with other signatures is a distinct identity", func(t *testing.T) {
		// expect:
		require.ErrorIs(t, responder.SetPaymentDetailsUpdateService(spoofed, &noopService{}), updates.ErrIdentityConflict)
	})

	t.Run("retrieval with a mismatching identity", func(t *testing.T) {
		// when:
		_, err := responder.UpdateService(intruder)

		// then:
		require.ErrorIs(t, err, updates.ErrIdentityConflict)
	})

	t.Run("same identity may re-attach", func(t *testing.T) {
		// given:
		replacement := &noopService{name: "chrome-2"}

		// when:
		err := responder.SetPaymentDetailsUpdateService(chrome, replacement)

		// then:
		require.NoError(t, err)
		got, err := responder.UpdateService(chrome)
		require.NoError(t, err)
		assert.Same(t, replacement, got)
	})
}

func TestResponderNotConnected(t *testing.T) {
	// given:
	responder := updates.NewResponder(nil)

	// when:
	_, err := responder.UpdateService(chrome)

	// then:
	require.ErrorIs(t, err, updates.ErrNotConnected)
	_, bound := responder.BoundIdentity()
	assert.False(t, bound)
}

func TestResponderBoundToIntruder(t *testing.T) {
	// given:
	responder := updates.NewResponder(logging.NewTestLogger(t))
	require.NoError(t, responder.SetPaymentDetailsUpdateService(intruder, &noopService{}))

	// when:
	_, err := responder.UpdateService(chrome)

	// then:
	require.ErrorIs(t, err, updates.ErrIdentityConflict)
	identity, bound := responder.BoundIdentity()
	assert.True(t, bound)
	assert.True(t, identity.Equal(intruder))
}

type noopService struct {
	name string
}

func (s *noopService) ChangePaymentMethod(context.Context, bundle.Bundle, updates.Callback) error {
	return nil
}

func (s *noopService) ChangeShippingOption(context.Context, string, updates.Callback) error {
	return nil
}

func (s *noopService) ChangeShippingAddress(context.Context, bundle.Bundle, updates.Callback) error {
	return nil
}
