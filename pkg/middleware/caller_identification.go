package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/callerctx"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/identification"
)

// CallerIdentificationConfig is the configuration for the caller identification middleware.
type CallerIdentificationConfig = identification.Config

// CallerIdentifier resolves the calling package named by a request, usually a *callerauth.Authorizer.
type CallerIdentifier = identification.Identifier

// WithCallerIdentificationLogger configures the middleware to use the provided logger.
func WithCallerIdentificationLogger(logger *slog.Logger) func(*CallerIdentificationConfig) {
	// don't override the default
	if logger == nil {
		return func(cfg *CallerIdentificationConfig) {}
	}

	return func(cfg *CallerIdentificationConfig) {
		cfg.Logger = logger
	}
}

// WithUnknownCallers lets requests without a calling package through, identified as an unknown caller.
func WithUnknownCallers() func(*CallerIdentificationConfig) {
	return func(cfg *CallerIdentificationConfig) {
		cfg.AllowUnknownCaller = true
	}
}

// CallerIdentificationFactory is a factory for caller identification middleware.
type CallerIdentificationFactory struct {
	identifier CallerIdentifier
	options    []func(*CallerIdentificationConfig)
}

// NewCallerIdentification creates a new factory of middleware putting the identified caller into the request context.
func NewCallerIdentification(identifier CallerIdentifier, opts ...func(*CallerIdentificationConfig)) *CallerIdentificationFactory {
	if identifier == nil {
		panic("caller identifier must be provided to create caller identification middleware")
	}

	return &CallerIdentificationFactory{
		identifier: identifier,
		options:    opts,
	}
}

// HTTPHandler creates a new caller identification middleware as http.Handler, which wraps the provided handler.
func (f *CallerIdentificationFactory) HTTPHandler(next http.Handler) http.Handler {
	return f.HTTPHandlerWithOptions(next)
}

// HTTPHandlerWithOptions creates a new caller identification middleware as http.Handler with additional options.
func (f *CallerIdentificationFactory) HTTPHandlerWithOptions(next http.Handler, opts ...func(*CallerIdentificationConfig)) http.Handler {
	opts = append(f.options[:len(f.options):len(f.options)], opts...)

	if f.identifier == nil {
		// In case if someone would create a factory just by calling &middleware.CallerIdentificationFactory{}
		panic("caller identifier must be provided to create caller identification middleware")
	}

	if next == nil {
		panic("next handler must be provided to apply caller identification middleware to it")
	}

	return identification.NewMiddleware(next, f.identifier, opts...)
}

// ShouldGetCaller returns the caller identified for the request.
func ShouldGetCaller(ctx context.Context) (callerauth.Caller, error) {
	return callerctx.ShouldGetCaller(ctx)
}
