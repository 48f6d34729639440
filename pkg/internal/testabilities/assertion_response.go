package testabilities

import (
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/middleware/httperror"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ResponseAssertion interface {
	HasStatus(statusCode int) ResponseAssertion
	HasHeader(headerName string) ResponseAssertion
	HasJSONBody(expectedBody string) ResponseAssertion
	HasEmptyBody() ResponseAssertion
	HasErrorCode(code string) ResponseAssertion
	IsResult(code intent.ResultCode) ResponseAssertion
}

type httpResponseAssertion struct {
	testing.TB

	response *resty.Response
}

func NewResponseAssertion(t testing.TB, response *resty.Response) ResponseAssertion {
	return &httpResponseAssertion{
		TB:       t,
		response: response,
	}
}

func (a *httpResponseAssertion) HasStatus(status int) ResponseAssertion {
	a.Helper()
	assert.Equalf(a, status, a.response.StatusCode(), "request should return status %d, body: %s", status, a.response.String())
	return a
}

func (a *httpResponseAssertion) HasHeader(headerName string) ResponseAssertion {
	a.Helper()
	assert.NotEmptyf(a, a.response.Header().Get(headerName), "response should have header %s", headerName)
	return a
}

func (a *httpResponseAssertion) HasJSONBody(body string) ResponseAssertion {
	a.Helper()
	assert.JSONEq(a, body, a.response.String())
	return a
}

func (a *httpResponseAssertion) HasEmptyBody() ResponseAssertion {
	a.Helper()
	assert.Empty(a, a.response.Body(), "response body should be empty")
	return a
}

func (a *httpResponseAssertion) HasErrorCode(code string) ResponseAssertion {
	a.Helper()
	var envelope httperror.Response
	require.NoErrorf(a, sonic.Unmarshal(a.response.Body(), &envelope), "response should be an error envelope: %s", a.response.String())
	assert.Equal(a, "error", envelope.Status)
	assert.Equal(a, code, envelope.Code)
	assert.NotEmpty(a, envelope.Description)
	return a
}

func (a *httpResponseAssertion) IsResult(code intent.ResultCode) ResponseAssertion {
	a.Helper()
	var result intent.Result
	require.NoErrorf(a, sonic.Unmarshal(a.response.Body(), &result), "response should be a result intent: %s", a.response.String())
	assert.Equalf(a, code, result.ResultCode, "result code should be %s", code)
	return a
}
