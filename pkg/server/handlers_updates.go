package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/callerctx"
)

// AttachRequest is sent by the browser to attach its payment details update service to a checkout.
type AttachRequest struct {
	CheckoutID string `json:"checkoutId"`
	ServiceURL string `json:"serviceUrl"`
}

func (s *Server) attachUpdateService(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	caller, err := s.knownCaller(r)
	if err != nil {
		return err
	}

	var req AttachRequest
	if err := s.readJSON(w, r, &req); err != nil {
		return err
	}
	if req.CheckoutID == "" || req.ServiceURL == "" {
		return fmt.Errorf("%w: checkoutId and serviceUrl are required", ErrMalformedRequest)
	}

	session, err := s.deps.Checkouts.Get(ctx, req.CheckoutID)
	if err != nil {
		return err
	}
	service, err := s.deps.UpdateServices.Service(req.ServiceURL, caller.Identity)
	if err != nil {
		return err
	}
	if err := session.AttachUpdateService(ctx, caller.Identity, service); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Update service attached",
		slog.String("checkoutId", req.CheckoutID),
		slog.String("caller", caller.Identity.PackageName),
	)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) updateWith(w http.ResponseWriter, r *http.Request) error {
	caller, err := s.knownCaller(r)
	if err != nil {
		return err
	}

	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	details, err := bundle.Parse(body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	callback, err := s.deps.Callbacks.Take(r.PathValue("id"), caller.Identity)
	if err != nil {
		return err
	}
	callback.UpdateWith(r.Context(), details)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) paymentDetailsNotUpdated(w http.ResponseWriter, r *http.Request) error {
	caller, err := s.knownCaller(r)
	if err != nil {
		return err
	}

	callback, err := s.deps.Callbacks.Take(r.PathValue("id"), caller.Identity)
	if err != nil {
		return err
	}
	callback.PaymentDetailsNotUpdated(r.Context())

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) knownCaller(r *http.Request) (callerauth.Caller, error) {
	caller, err := callerctx.ShouldGetCaller(r.Context())
	if err != nil {
		return callerauth.Caller{}, err
	}
	if caller.Unknown() {
		return callerauth.Caller{}, ErrCallingPackageRequired
	}
	return caller, nil
}
