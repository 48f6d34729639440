package testabilities

import (
	"log/slog"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/testabilities/testapps"
	"github.com/go-resty/resty/v2"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/stretchr/testify/require"
)

type SamplePayTestsFixture interface {
	// App is the payment app under test. It has to be started before the client is used.
	App() AppFixture
	// Browser creates a new fake browser update service.
	Browser() BrowserFixture
	Client() ClientFixture
}

type SamplePayTestsAssertion interface {
	Response(*resty.Response) ResponseAssertion
	ChangeRequest(ChangeRequest) ChangeRequestAssertion
}

func New(t testing.TB, opts ...func(*Options)) (SamplePayTestsFixture, SamplePayTestsAssertion) {
	return Given(t, opts...), Then(t)
}

func Given(t testing.TB, opts ...func(*Options)) SamplePayTestsFixture {
	f := &samplePayTestsFixture{
		TB: t,
	}

	options := to.OptionsWithDefault(Options{
		logger:      logging.NewTestLogger(f),
		trustedApps: testapps.Browsers(),
	}, opts...)

	f.logger = options.logger
	f.appFixture = newAppFixture(f, f.logger, options.trustedApps)

	return f
}

func Then(t testing.TB) SamplePayTestsAssertion {
	return &samplePayTestsAssertion{
		TB: t,
	}
}

type samplePayTestsFixture struct {
	testing.TB
	appFixture *appFixture
	logger     *slog.Logger
}

func (f *samplePayTestsFixture) App() AppFixture {
	return f.appFixture
}

func (f *samplePayTestsFixture) Browser() BrowserFixture {
	return newBrowserFixture(f)
}

func (f *samplePayTestsFixture) Client() ClientFixture {
	return newClientFixture(f, f.appFixture.URL())
}

type samplePayTestsAssertion struct {
	testing.TB
}

func (a *samplePayTestsAssertion) Response(response *resty.Response) ResponseAssertion {
	a.Helper()
	require.NotNil(a, response, "response should not be nil")

	return NewResponseAssertion(a, response)
}

func (a *samplePayTestsAssertion) ChangeRequest(request ChangeRequest) ChangeRequestAssertion {
	return NewChangeRequestAssertion(a, request)
}
