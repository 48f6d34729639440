// Package server exposes the payment app over HTTP: the PAY and IS_READY_TO_PAY intents coming from the browser,
// the checkout driven by the payer, and the payment details update exchange.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/middleware"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/go-softwarelab/common/pkg/to"
)

// DefaultMaxBodyBytes limits the size of request bodies.
const DefaultMaxBodyBytes = 1 << 20

// ReadinessChecker answers IS_READY_TO_PAY.
type ReadinessChecker interface {
	IsReadyToPay(ctx context.Context, caller callerauth.Caller, extras bundle.Bundle) bool
}

// UpdateServiceFactory creates a client of the browser's update service.
type UpdateServiceFactory interface {
	Service(serviceURL string, owner callerauth.ApplicationIdentity) (updates.Service, error)
}

// Dependencies are the components the server routes to.
type Dependencies struct {
	Identifier     middleware.CallerIdentifier
	Checkouts      *checkout.Manager
	Readiness      ReadinessChecker
	Callbacks      *updates.CallbackRegistry
	UpdateServices UpdateServiceFactory
}

type Config struct {
	MaxBodyBytes int64
	Logger       *slog.Logger
}

func WithMaxBodyBytes(limit int64) func(*Config) {
	return func(cfg *Config) {
		cfg.MaxBodyBytes = limit
	}
}

func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

type Server struct {
	deps         Dependencies
	maxBodyBytes int64
	log          *slog.Logger
	handler      http.Handler
}

func New(deps Dependencies, opts ...func(*Config)) *Server {
	switch {
	case deps.Identifier == nil:
		panic("caller identifier is required")
	case deps.Checkouts == nil:
		panic("checkout manager is required")
	case deps.Readiness == nil:
		panic("readiness checker is required")
	case deps.Callbacks == nil:
		panic("callback registry is required")
	case deps.UpdateServices == nil:
		panic("update service factory is required")
	}

	cfg := to.OptionsWithDefault(Config{
		MaxBodyBytes: DefaultMaxBodyBytes,
	}, opts...)

	s := &Server{
		deps:         deps,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          logging.Child(cfg.Logger, "SamplePayServer"),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.handler = middleware.NewCallerIdentification(deps.Identifier,
		middleware.WithCallerIdentificationLogger(cfg.Logger),
		middleware.WithUnknownCallers(),
	).HTTPHandler(mux)

	return s
}

// Handler returns the routes wrapped in caller identification.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(mux *http.ServeMux) {
	post := func(path string, h handlerFunc) {
		mux.Handle(http.MethodPost+" "+path, s.handle(h))
	}

	post(constants.PayPath, s.startCheckout)
	post(constants.IsReadyToPayPath, s.isReadyToPay)

	mux.Handle(http.MethodGet+" "+constants.CheckoutPath+"/{id}", s.handle(s.viewCheckout))
	post(constants.CheckoutPath+"/{id}/promotion", s.applyPromotionCode)
	post(constants.CheckoutPath+"/{id}/shipping-option", s.selectShippingOption)
	post(constants.CheckoutPath+"/{id}/shipping-address", s.selectShippingAddress)
	post(constants.CheckoutPath+"/{id}/pay", s.pay)
	post(constants.CheckoutPath+"/{id}/cancel", s.cancel)

	post(constants.UpdateServicePath, s.attachUpdateService)
	post(constants.UpdateCallbacksPath+"/{id}/update-with", s.updateWith)
	post(constants.UpdateCallbacksPath+"/{id}/not-updated", s.paymentDetailsNotUpdated)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		httpErr := toHTTPError(err)
		log := s.log.With(slog.String("path", r.URL.Path), slog.String("method", r.Method))
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "Failed to handle request", logging.Error(err))
		} else {
			log.InfoContext(r.Context(), "Request rejected", slog.String("code", httpErr.Code), logging.Error(err))
		}

		if err := httpErr.Write(w); err != nil {
			log.ErrorContext(r.Context(), "Failed to write error response", logging.Error(err))
		}
	})
}
