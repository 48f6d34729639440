package testabilities

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/testabilities/testapps"
	"github.com/bsv-blockchain/go-samplepay/pkg/isready"
	fileregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/file"
	"github.com/bsv-blockchain/go-samplepay/pkg/server"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates/httpclient"
	"github.com/stretchr/testify/require"
)

type AppFixture interface {
	WithUntrustedIsReadyToPay() AppFixture
	WithUpdateServiceTimeout(timeout time.Duration) AppFixture
	Started() (cleanup func())

	URL() string
	Checkouts() *checkout.Manager
	Callbacks() *updates.CallbackRegistry
}

type appFixture struct {
	testing.TB
	logger *slog.Logger

	trustedApps    []testapps.App
	allowUntrusted bool
	timeout        time.Duration

	server    *httptest.Server
	checkouts *checkout.Manager
	callbacks *updates.CallbackRegistry
}

func newAppFixture(t testing.TB, logger *slog.Logger, trustedApps []testapps.App) *appFixture {
	return &appFixture{
		TB:          t,
		logger:      logger,
		trustedApps: trustedApps,
		timeout:     2 * time.Second,
	}
}

func (f *appFixture) WithUntrustedIsReadyToPay() AppFixture {
	f.allowUntrusted = true
	return f
}

func (f *appFixture) WithUpdateServiceTimeout(timeout time.Duration) AppFixture {
	f.timeout = timeout
	return f
}

func (f *appFixture) Started() (cleanup func()) {
	registry := fileregistry.New(nil)
	for _, app := range testapps.Installed() {
		registry.Install(app.PackageName, app.Certificate)
	}

	authorizer := callerauth.NewAuthorizer(registry,
		callerauth.WithTrustedCallers(testapps.Trusted(f.trustedApps...)...),
		callerauth.WithAuthorizerLogger(f.logger),
	)

	f.callbacks = updates.NewCallbackRegistry()
	f.checkouts = checkout.NewManager(checkout.WithCallbacks(f.callbacks), checkout.WithLogger(f.logger))

	srv := server.New(server.Dependencies{
		Identifier: authorizer,
		Checkouts:  f.checkouts,
		Readiness: isready.New(
			isready.WithAllowUntrusted(f.allowUntrusted),
			isready.WithLogger(f.logger),
		),
		Callbacks: f.callbacks,
		UpdateServices: httpclient.NewFactory(f.callbacks,
			httpclient.WithTimeout(f.timeout),
			httpclient.WithLogger(f.logger),
		),
	}, server.WithLogger(f.logger))

	f.server = httptest.NewServer(srv.Handler())

	return f.server.Close
}

func (f *appFixture) URL() string {
	require.NotNil(f, f.server, "app must be started before URL can be retrieved: invalid test setup")
	return f.server.URL
}

func (f *appFixture) Checkouts() *checkout.Manager {
	require.NotNil(f, f.checkouts, "app must be started first: invalid test setup")
	return f.checkouts
}

func (f *appFixture) Callbacks() *updates.CallbackRegistry {
	require.NotNil(f, f.callbacks, "app must be started first: invalid test setup")
	return f.callbacks
}
