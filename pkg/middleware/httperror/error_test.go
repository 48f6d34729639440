package httperror_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/middleware/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	// given:
	cause := errors.New("no such checkout")
	httpErr := &httperror.Error{
		StatusCode: http.StatusNotFound,
		Code:       httperror.CodeCheckoutNotFound,
		Message:    "Checkout not found",
		Err:        cause,
	}
	recorder := httptest.NewRecorder()

	// when:
	err := httpErr.Write(recorder)

	// then:
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"error","code":"ERR_CHECKOUT_NOT_FOUND","description":"Checkout not found"}`, recorder.Body.String())

	// and:
	require.ErrorIs(t, httpErr, cause)
	assert.Equal(t, "Checkout not found: no such checkout", httpErr.Error())
}
