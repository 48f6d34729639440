package intent_test

import (
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("pay intent", func(t *testing.T) {
		// when:
		in, err := intent.Decode([]byte(`{"action":"org.chromium.intent.action.PAY","extras":{"merchantName":"Shop"}}`))

		// then:
		require.NoError(t, err)
		assert.Equal(t, constants.ActionPay, in.Action)
		assert.Equal(t, "Shop", in.Extras.GetStringOr("merchantName", ""))
	})

	t.Run("intent without extras", func(t *testing.T) {
		// when:
		in, err := intent.Decode([]byte(`{"action":"org.chromium.intent.action.PAY"}`))

		// then:
		require.NoError(t, err)
		assert.Nil(t, in.Extras)
	})

	t.Run("malformed body", func(t *testing.T) {
		// when:
		_, err := intent.Decode([]byte(`{"action":`))

		// then:
		require.ErrorIs(t, err, intent.ErrMalformedIntent)
	})
}

func TestResultEncoding(t *testing.T) {
	// given:
	result := intent.OK(bundle.Bundle{"methodName": constants.DefaultMethodName})

	// when:
	data, err := sonic.Marshal(result)

	// then:
	require.NoError(t, err)
	assert.JSONEq(t, `{"resultCode":-1,"extras":{"methodName":"https://sample-pay-web-app.firebaseapp.com"}}`, string(data))
	assert.True(t, result.IsOK())

	// and:
	canceled, err := sonic.Marshal(intent.Canceled())
	require.NoError(t, err)
	assert.JSONEq(t, `{"resultCode":0}`, string(canceled))
	assert.Equal(t, "RESULT_CANCELED", intent.Canceled().ResultCode.String())
}
