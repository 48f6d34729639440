package testabilities

import (
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/testabilities/testapps"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type ClientFixture interface {
	// As sends the following requests on behalf of the app.
	As(app testapps.App) ClientFixture
	Get(path string) *resty.Response
	Post(path string, body any) *resty.Response

	// StartCheckout sends a PAY intent and returns the id of the started checkout.
	StartCheckout(extras bundle.Bundle) string
	View(checkoutID string) checkout.View
}

type clientFixture struct {
	testing.TB
	rest           *resty.Client
	callingPackage string
}

func newClientFixture(t testing.TB, baseURL string) ClientFixture {
	return &clientFixture{
		TB: t,
		rest: resty.New().
			SetBaseURL(baseURL).
			SetJSONMarshaler(sonic.Marshal).
			SetJSONUnmarshaler(sonic.Unmarshal),
	}
}

func (f *clientFixture) As(app testapps.App) ClientFixture {
	return &clientFixture{
		TB:             f.TB,
		rest:           f.rest,
		callingPackage: app.PackageName,
	}
}

func (f *clientFixture) request() *resty.Request {
	request := f.rest.R().SetContext(f.Context())
	if f.callingPackage != "" {
		request.SetHeader(constants.HeaderCallingPackage, f.callingPackage)
	}
	return request
}

func (f *clientFixture) Get(path string) *resty.Response {
	f.Helper()
	response, err := f.request().Get(path)
	require.NoErrorf(f, err, "GET %s failed", path)
	return response
}

func (f *clientFixture) Post(path string, body any) *resty.Response {
	f.Helper()
	request := f.request().SetHeader("Content-Type", "application/json")
	if body != nil {
		request.SetBody(body)
	}
	response, err := request.Post(path)
	require.NoErrorf(f, err, "POST %s failed", path)
	return response
}

func (f *clientFixture) StartCheckout(extras bundle.Bundle) string {
	f.Helper()
	response := f.Post(constants.PayPath, map[string]any{
		"action": constants.ActionPay,
		"extras": extras,
	})
	require.Equalf(f, 201, response.StatusCode(), "checkout should start: %s", response.String())
	return f.decodeView(response).ID
}

func (f *clientFixture) View(checkoutID string) checkout.View {
	f.Helper()
	response := f.Get(constants.CheckoutPath + "/" + checkoutID)
	require.Equalf(f, 200, response.StatusCode(), "checkout view should be available: %s", response.String())
	return f.decodeView(response)
}

func (f *clientFixture) decodeView(response *resty.Response) checkout.View {
	f.Helper()
	var view checkout.View
	require.NoError(f, sonic.Unmarshal(response.Body(), &view), "checkout view should be decodable")
	return view
}
