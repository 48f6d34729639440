package testabilities

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ChangeRequest is a change request received by the fake browser.
type ChangeRequest struct {
	Path           string
	CallingPackage string
	Body           bundle.Bundle
}

// CallbackPath is where the app expects the answer to this change request.
func (r ChangeRequest) CallbackPath() string {
	return r.Body.GetStringOr("callbackPath", "")
}

type BrowserFixture interface {
	// AnswersInline makes the browser answer every change request with the updated details in the response.
	AnswersInline(details bundle.Bundle) BrowserFixture
	// AnswersNotUpdated makes the browser answer every change request inline with no changes.
	AnswersNotUpdated() BrowserFixture
	// FailsWith makes the browser reject every change request with the status.
	FailsWith(status int) BrowserFixture
	Started() (cleanup func())

	ServiceURL() string
	Requests() []ChangeRequest
	LastRequest() ChangeRequest
}

type browserFixture struct {
	testing.TB

	mu       sync.Mutex
	status   int
	answer   any
	requests []ChangeRequest
	server   *httptest.Server
}

func newBrowserFixture(t testing.TB) *browserFixture {
	return &browserFixture{
		TB:     t,
		status: http.StatusAccepted,
	}
}

func (f *browserFixture) AnswersInline(details bundle.Bundle) BrowserFixture {
	f.status = http.StatusOK
	f.answer = map[string]any{"updatedPaymentDetails": details}
	return f
}

func (f *browserFixture) AnswersNotUpdated() BrowserFixture {
	f.status = http.StatusOK
	f.answer = map[string]any{"notUpdated": true}
	return f
}

func (f *browserFixture) FailsWith(status int) BrowserFixture {
	f.status = status
	f.answer = nil
	return f
}

func (f *browserFixture) Started() (cleanup func()) {
	mux := http.NewServeMux()
	for _, path := range []string{
		constants.ChangePaymentMethodPath,
		constants.ChangeShippingOptionPath,
		constants.ChangeShippingAddressPath,
	} {
		mux.HandleFunc(http.MethodPost+" "+path, f.handleChange)
	}

	f.server = httptest.NewServer(mux)
	return f.server.Close
}

// handleChange runs on the server goroutine, so it only asserts.
func (f *browserFixture) handleChange(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if !assert.NoError(f, err, "fake browser failed to read change request") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	payload, err := bundle.Parse(body)
	if !assert.NoError(f, err, "fake browser received undecodable change request") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, ChangeRequest{
		Path:           r.URL.Path,
		CallingPackage: r.Header.Get(constants.HeaderCallingPackage),
		Body:           payload,
	})
	status, answer := f.status, f.answer
	f.mu.Unlock()

	if answer == nil {
		w.WriteHeader(status)
		return
	}

	response, err := sonic.Marshal(answer)
	if !assert.NoError(f, err, "fake browser failed to encode answer") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func (f *browserFixture) ServiceURL() string {
	require.NotNil(f, f.server, "browser must be started before service URL can be retrieved: invalid test setup")
	return f.server.URL
}

func (f *browserFixture) Requests() []ChangeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChangeRequest(nil), f.requests...)
}

func (f *browserFixture) LastRequest() ChangeRequest {
	f.Helper()
	requests := f.Requests()
	require.NotEmpty(f, requests, "fake browser should have received a change request")
	return requests[len(requests)-1]
}
