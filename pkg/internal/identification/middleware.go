package identification

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/callerctx"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/middleware/httperror"
	"github.com/go-softwarelab/common/pkg/optional"
	"github.com/go-softwarelab/common/pkg/to"
)

// ErrCallingPackageRequired is returned when the request does not name its calling package.
var ErrCallingPackageRequired = errors.New("calling package header is required")

// Identifier resolves a calling package into a Caller.
type Identifier interface {
	Identify(ctx context.Context, packageName string) (callerauth.Caller, error)
}

type Config struct {
	AllowUnknownCaller bool
	Logger             *slog.Logger
}

type Middleware struct {
	identifier         Identifier
	nextHandler        http.Handler
	log                *slog.Logger
	allowUnknownCaller bool
	errorHandler       func(context.Context, *slog.Logger, *httperror.Error, http.ResponseWriter, *http.Request)
}

func NewMiddleware(next http.Handler, identifier Identifier, opts ...func(*Config)) *Middleware {
	cfg := to.OptionsWithDefault(Config{
		AllowUnknownCaller: false,
		Logger:             slog.Default(),
	}, opts...)

	return &Middleware{
		identifier:         identifier,
		nextHandler:        next,
		log:                logging.Child(cfg.Logger, "CallerIdentificationMiddleware"),
		allowUnknownCaller: cfg.AllowUnknownCaller,
		errorHandler:       DefaultErrorHandler,
	}
}

func (m *Middleware) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	ctx := optional.OfValue(request.Context()).OrElseGet(context.Background)
	ctx = callerctx.WithRequest(ctx, request)

	packageName := request.Header.Get(constants.HeaderCallingPackage)
	log := m.log.With(
		slog.String("path", request.URL.Path),
		slog.String("method", request.Method),
		slog.String("callingPackage", packageName),
	)

	if packageName == "" && !m.allowUnknownCaller {
		m.fail(ctx, log, ErrCallingPackageRequired, response, request)
		return
	}

	caller, err := m.identifier.Identify(ctx, packageName)
	if err != nil {
		m.fail(ctx, log, err, response, request)
		return
	}
	log.DebugContext(ctx, "Caller identified", slog.Bool("authorized", caller.Authorized))

	ctx = callerctx.WithCaller(ctx, caller)
	m.nextHandler.ServeHTTP(response, request.WithContext(ctx))
}

func (m *Middleware) fail(ctx context.Context, log *slog.Logger, err error, response http.ResponseWriter, request *http.Request) {
	log.ErrorContext(ctx, "Failed to identify caller", logging.Error(err))
	m.errorHandler(ctx, log, toHTTPError(err), response, request)
}

func toHTTPError(err error) *httperror.Error {
	httpErr := &httperror.Error{
		Err: err,
	}

	switch {
	case errors.Is(err, ErrCallingPackageRequired):
		httpErr.StatusCode = http.StatusUnauthorized
		httpErr.Code = httperror.CodeCallerNotAuthorized
		httpErr.Message = err.Error()
	default:
		httpErr.StatusCode = http.StatusInternalServerError
		httpErr.Code = httperror.CodeInternal
		httpErr.Message = "Failed to look up the calling package"
	}

	return httpErr
}

func DefaultErrorHandler(ctx context.Context, log *slog.Logger, httpErr *httperror.Error, response http.ResponseWriter, _ *http.Request) {
	if err := httpErr.Write(response); err != nil {
		log.ErrorContext(ctx, "Failed to write error response", logging.Error(err))
	}
}
