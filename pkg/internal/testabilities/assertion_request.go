package testabilities

import (
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/stretchr/testify/assert"
)

type ChangeRequestAssertion interface {
	HasPath(path string) ChangeRequestAssertion
	HasCallingPackage(packageName string) ChangeRequestAssertion
	HasField(key string, expected any) ChangeRequestAssertion
	HasCallback() ChangeRequestAssertion
}

type changeRequestAssertion struct {
	testing.TB

	request ChangeRequest
}

func NewChangeRequestAssertion(t testing.TB, request ChangeRequest) ChangeRequestAssertion {
	return &changeRequestAssertion{
		TB:      t,
		request: request,
	}
}

func (a *changeRequestAssertion) HasPath(path string) ChangeRequestAssertion {
	a.Helper()
	assert.Equal(a, path, a.request.Path, "change request path received by browser should match")
	return a
}

func (a *changeRequestAssertion) HasCallingPackage(packageName string) ChangeRequestAssertion {
	a.Helper()
	assert.Equal(a, packageName, a.request.CallingPackage, "change request should name the payment app")
	return a
}

func (a *changeRequestAssertion) HasField(key string, expected any) ChangeRequestAssertion {
	a.Helper()
	assert.Equalf(a, expected, a.request.Body[key], "change request field %s should match", key)
	return a
}

func (a *changeRequestAssertion) HasCallback() ChangeRequestAssertion {
	a.Helper()
	callbackID := a.request.Body.GetStringOr("callbackId", "")
	if assert.NotEmpty(a, callbackID, "change request should carry a callback id") {
		assert.True(a, strings.HasPrefix(a.request.CallbackPath(), constants.UpdateCallbacksPath+"/"),
			"callback path %q should point to the callback routes", a.request.CallbackPath())
		assert.True(a, strings.HasSuffix(a.request.CallbackPath(), callbackID))
	}
	return a
}
