package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/callerctx"
)

// ReadyToPayResponse answers IS_READY_TO_PAY.
type ReadyToPayResponse struct {
	ReadyToPay bool `json:"readyToPay"`
}

type promotionRequest struct {
	PromotionCode string `json:"promotionCode"`
}

type shippingOptionRequest struct {
	ShippingOptionID string `json:"shippingOptionId"`
}

type shippingAddressRequest struct {
	ShippingAddressID string `json:"shippingAddressId"`
}

func (s *Server) startCheckout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	caller, err := callerctx.ShouldGetCaller(ctx)
	if err != nil {
		return err
	}

	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	in, err := intent.Decode(body)
	if err != nil {
		return err
	}

	session, err := s.deps.Checkouts.Start(ctx, caller, in)
	if errors.Is(err, checkout.ErrNotPayIntent) {
		s.log.WarnContext(ctx, "Canceling intent that is not a payment", slog.String("action", in.Action))
		return writeJSON(w, http.StatusOK, intent.Canceled())
	}
	if err != nil {
		return err
	}

	w.Header().Set("Location", constants.CheckoutPath+"/"+session.ID())
	return writeJSON(w, http.StatusCreated, session.View())
}

func (s *Server) isReadyToPay(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	caller, err := callerctx.ShouldGetCaller(ctx)
	if err != nil {
		return err
	}

	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	in, err := intent.Decode(body)
	if err != nil {
		return err
	}

	ready := in.Action == constants.ActionIsReadyToPay && s.deps.Readiness.IsReadyToPay(ctx, caller, in.Extras)
	return writeJSON(w, http.StatusOK, ReadyToPayResponse{ReadyToPay: ready})
}

func (s *Server) viewCheckout(w http.ResponseWriter, r *http.Request) error {
	view, err := s.deps.Checkouts.View(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

func (s *Server) applyPromotionCode(w http.ResponseWriter, r *http.Request) error {
	var req promotionRequest
	return s.withSession(w, r, &req, func(session *checkout.Session) error {
		return session.ApplyPromotionCode(r.Context(), req.PromotionCode)
	})
}

func (s *Server) selectShippingOption(w http.ResponseWriter, r *http.Request) error {
	var req shippingOptionRequest
	return s.withSession(w, r, &req, func(session *checkout.Session) error {
		return session.UpdateShippingOption(r.Context(), req.ShippingOptionID)
	})
}

func (s *Server) selectShippingAddress(w http.ResponseWriter, r *http.Request) error {
	var req shippingAddressRequest
	return s.withSession(w, r, &req, func(session *checkout.Session) error {
		return session.UpdateShippingAddress(r.Context(), req.ShippingAddressID)
	})
}

// withSession decodes the body into req, runs action on the session and responds with the resulting view.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, req any, action func(*checkout.Session) error) error {
	session, err := s.deps.Checkouts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	if err := s.readJSON(w, r, req); err != nil {
		return err
	}
	if err := action(session); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, session.View())
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) error {
	session, err := s.deps.Checkouts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}

	var form checkout.PaymentForm
	if err := s.readJSON(w, r, &form); err != nil {
		return err
	}

	result, err := session.Pay(r.Context(), form)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) error {
	session, err := s.deps.Checkouts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}

	result, err := session.Cancel(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}
