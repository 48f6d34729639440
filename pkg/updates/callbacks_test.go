package updates_test

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRegistry(t *testing.T) {
	t.Run("callback is taken once by its owner", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()
		callback := &recordingCallback{}
		id := registry.Register(chrome, callback)

		// when:
		got, err := registry.Take(id, chrome)

		// then:
		require.NoError(t, err)
		assert.Same(t, callback, got)

		// and:
		_, err = registry.Take(id, chrome)
		require.ErrorIs(t, err, updates.ErrCallbackNotFound)
		assert.Zero(t, registry.Len())
	})

	t.Run("foreign caller cannot take the callback", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()
		id := registry.Register(chrome, &recordingCallback{})

		// when:
		_, err := registry.Take(id, intruder)

		// then:
		require.ErrorIs(t, err, updates.ErrIdentityConflict)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("removed callback", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()
		id := registry.Register(chrome, &recordingCallback{})

		// when:
		registry.Remove(id)

		// then:
		_, err := registry.Take(id, chrome)
		require.ErrorIs(t, err, updates.ErrCallbackNotFound)
	})

	t.Run("released callbacks of one receiver", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()
		finished := &recordingCallback{}
		running := &recordingCallback{}
		first := registry.Register(chrome, finished)
		second := registry.Register(chrome, finished)
		kept := registry.Register(chrome, running)

		// when:
		released := registry.Release(finished)

		// then:
		assert.Equal(t, 2, released)
		assert.Equal(t, 1, registry.Len())

		// and:
		_, err := registry.Take(first, chrome)
		require.ErrorIs(t, err, updates.ErrCallbackNotFound)
		_, err = registry.Take(second, chrome)
		require.ErrorIs(t, err, updates.ErrCallbackNotFound)

		// and:
		got, err := registry.Take(kept, chrome)
		require.NoError(t, err)
		assert.Same(t, running, got)
	})

	t.Run("release without pending callbacks", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()

		// expect:
		assert.Zero(t, registry.Release(&recordingCallback{}))
	})

	t.Run("ids are unique", func(t *testing.T) {
		// given:
		registry := updates.NewCallbackRegistry()

		// when:
		first := registry.Register(chrome, &recordingCallback{})
		second := registry.Register(chrome, &recordingCallback{})

		// then:
		assert.NotEqual(t, first, second)
	})
}

type recordingCallback struct {
	updates    []bundle.Bundle
	notUpdated int
}

func (c *recordingCallback) UpdateWith(_ context.Context, details bundle.Bundle) {
	c.updates = append(c.updates, details)
}

func (c *recordingCallback) PaymentDetailsNotUpdated(context.Context) {
	c.notUpdated++
}
