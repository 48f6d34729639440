package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/bytedance/sonic"
)

const paymentToken = `{"token": "put-some-data-here"}`

// State of a checkout session.
type State string

const (
	StateStarted   State = "started"
	StateCompleted State = "completed"
	StateCanceled  State = "canceled"
	StateFailed    State = "failed"
)

// PaymentForm is what the payer filled in before paying. Empty selections fall back to the session's.
type PaymentForm struct {
	PayerName         string `json:"payerName"`
	PayerPhone        string `json:"payerPhone"`
	PayerEmail        string `json:"payerEmail"`
	ShippingAddressID string `json:"shippingAddressId"`
	ShippingOptionID  string `json:"shippingOptionId"`
	PromotionCode     string `json:"promotionCode"`
}

// Session is one started payment. All state changes happen under mu.
type Session struct {
	id         string
	caller     callerauth.Caller
	params     model.PaymentParams
	methodName string
	addresses  []model.PaymentAddress
	responder  *updates.Responder
	onFinish   func(context.Context, *Session)
	log        *slog.Logger

	mu                     sync.Mutex
	state                  State
	total                  *model.PaymentAmount
	shippingOptions        []model.ShippingOption
	selectedShippingOption string
	selectedAddress        string
	promotionCode          string
	errorText              string
	promotionCodeErrorText string
	pendingUpdates         int
	failure                error
	result                 *intent.Result
}

func newSession(id string, caller callerauth.Caller, params model.PaymentParams, cfg ManagerConfig, onFinish func(context.Context, *Session)) *Session {
	log := logging.Child(cfg.Logger, "CheckoutSession").With(slog.String("checkoutId", id))
	return &Session{
		id:                     id,
		caller:                 caller,
		params:                 params,
		methodName:             cfg.MethodName,
		addresses:              cfg.Addresses,
		responder:              updates.NewResponder(log),
		onFinish:               onFinish,
		log:                    log,
		state:                  StateStarted,
		total:                  params.Total,
		shippingOptions:        params.ShippingOptions,
		selectedShippingOption: model.DefaultShippingOptionID(params.ShippingOptions),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Caller returns the identity captured when the payment started.
func (s *Session) Caller() callerauth.Caller {
	return s.caller
}

func (s *Session) Params() model.PaymentParams {
	return s.params
}

// AttachUpdateService binds the browser's update service to the attaching identity.
// When the bound identity differs from the one that started the payment the session fails.
func (s *Session) AttachUpdateService(ctx context.Context, attacher callerauth.ApplicationIdentity, service updates.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return err
	}
	if err := s.responder.SetPaymentDetailsUpdateService(attacher, service); err != nil {
		return err
	}

	if _, err := s.responder.UpdateService(s.caller.Identity); errors.Is(err, updates.ErrIdentityConflict) {
		s.failLocked(ctx, err)
		return s.failure
	}
	return nil
}

// ApplyPromotionCode asks the browser to re-evaluate the payment method with the promotion code.
func (s *Session) ApplyPromotionCode(ctx context.Context, code string) error {
	details, err := sonic.MarshalString(map[string]string{"promotionCode": code})
	if err != nil {
		return fmt.Errorf("failed to encode promotion code: %w", err)
	}
	methodData := bundle.Bundle{
		"methodName": s.methodName,
		"details":    details,
	}

	return s.negotiate(ctx,
		func() (bool, error) {
			s.promotionCode = code
			s.promotionCodeErrorText = ""
			return true, nil
		},
		func(service updates.Service) error {
			return service.ChangePaymentMethod(ctx, methodData, s)
		},
	)
}

// UpdateShippingOption selects a shipping option and tells the browser about it.
// Selecting the current option is a no-op.
func (s *Session) UpdateShippingOption(ctx context.Context, shippingOptionID string) error {
	return s.negotiate(ctx,
		func() (bool, error) {
			if !hasShippingOption(s.shippingOptions, shippingOptionID) {
				return false, fmt.Errorf("%w: %s", ErrUnknownShippingOption, shippingOptionID)
			}
			if shippingOptionID == s.selectedShippingOption {
				return false, nil
			}
			s.selectedShippingOption = shippingOptionID
			return true, nil
		},
		func(service updates.Service) error {
			return service.ChangeShippingOption(ctx, shippingOptionID, s)
		},
	)
}

// UpdateShippingAddress selects one of the offered addresses and sends it to the browser.
func (s *Session) UpdateShippingAddress(ctx context.Context, addressID string) error {
	address, ok := findAddress(s.addresses, addressID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShippingAddress, addressID)
	}

	return s.negotiate(ctx,
		func() (bool, error) {
			s.selectedAddress = addressID
			return true, nil
		},
		func(service updates.Service) error {
			return service.ChangeShippingAddress(ctx, address.AsBundle(), s)
		},
	)
}

// negotiate applies a local change and forwards it to the browser's update service when one is attached.
// apply reports whether the change has to be forwarded at all.
// The lock is released before calling out, since the browser may answer inline.
// A change the browser never received is rolled back.
func (s *Session) negotiate(ctx context.Context, apply func() (bool, error), send func(updates.Service) error) error {
	s.mu.Lock()
	if err := s.ensureActiveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	before := s.selectionLocked()
	forward, err := apply()
	if err != nil || !forward {
		s.mu.Unlock()
		return err
	}

	service, err := s.responder.UpdateService(s.caller.Identity)
	switch {
	case errors.Is(err, updates.ErrNotConnected):
		s.mu.Unlock()
		s.log.DebugContext(ctx, "No update service attached, change kept locally")
		return nil
	case err != nil:
		s.restoreLocked(before, s.selectionLocked())
		s.failLocked(ctx, err)
		failure := s.failure
		s.mu.Unlock()
		return failure
	}
	applied := s.selectionLocked()
	s.pendingUpdates++
	s.mu.Unlock()

	if err := send(service); err != nil {
		s.mu.Lock()
		s.pendingUpdates = max(s.pendingUpdates-1, 0)
		s.restoreLocked(before, applied)
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Change not delivered, selection restored")
		return err
	}
	return nil
}

// selection is the part of the session a change request modifies.
type selection struct {
	shippingOption         string
	address                string
	promotionCode          string
	promotionCodeErrorText string
}

func (s *Session) selectionLocked() selection {
	return selection{
		shippingOption:         s.selectedShippingOption,
		address:                s.selectedAddress,
		promotionCode:          s.promotionCode,
		promotionCodeErrorText: s.promotionCodeErrorText,
	}
}

// restoreLocked puts back the fields of before that still hold the value set by the undelivered change.
func (s *Session) restoreLocked(before, applied selection) {
	if s.selectedShippingOption == applied.shippingOption {
		s.selectedShippingOption = before.shippingOption
	}
	if s.selectedAddress == applied.address {
		s.selectedAddress = before.address
	}
	if s.promotionCode == applied.promotionCode {
		s.promotionCode = before.promotionCode
	}
	if s.promotionCodeErrorText == applied.promotionCodeErrorText {
		s.promotionCodeErrorText = before.promotionCodeErrorText
	}
}

// UpdateWith merges the browser's updated payment details into the session.
func (s *Session) UpdateWith(ctx context.Context, details bundle.Bundle) {
	update := model.PaymentDetailsUpdateFromBundle(details)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingUpdates = max(s.pendingUpdates-1, 0)
	if s.state != StateStarted {
		s.log.DebugContext(ctx, "Ignoring payment details update for a finished checkout")
		return
	}

	if update.HasShippingOptions {
		s.shippingOptions = update.ShippingOptions
		if selected := model.DefaultShippingOptionID(update.ShippingOptions); selected != "" {
			s.selectedShippingOption = selected
		}
	}
	if update.Total != nil {
		s.total = update.Total
	}

	s.promotionCodeErrorText = ""
	if update.PaymentMethodErrors != nil {
		s.promotionCodeErrorText = *update.PaymentMethodErrors
	}

	s.errorText = ""
	if update.Error != nil {
		s.errorText = *update.Error
		if update.AddressErrors != nil {
			s.errorText += "\n" + update.AddressErrors.String()
		}
	}
	s.log.DebugContext(ctx, "Payment details changed")
}

// PaymentDetailsNotUpdated records that the browser answered without changes.
func (s *Session) PaymentDetailsNotUpdated(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingUpdates = max(s.pendingUpdates-1, 0)
	s.log.DebugContext(ctx, "Payment details did not change")
}

// Pay completes the checkout and returns the result intent for the browser.
func (s *Session) Pay(ctx context.Context, form PaymentForm) (intent.Result, error) {
	s.mu.Lock()
	if err := s.ensureActiveLocked(); err != nil {
		s.mu.Unlock()
		return intent.Result{}, err
	}
	if !s.caller.Authorized {
		s.mu.Unlock()
		return intent.Result{}, ErrCallerNotAuthorized
	}
	if s.pendingUpdates > 0 {
		s.mu.Unlock()
		return intent.Result{}, ErrUpdateInProgress
	}

	options := s.params.PaymentOptions
	extras := bundle.Bundle{
		"methodName": s.methodName,
		"details":    paymentToken,
	}
	if options.RequestPayerName {
		extras["payerName"] = form.PayerName
	}
	if options.RequestPayerPhone {
		extras["payerPhone"] = form.PayerPhone
	}
	if options.RequestPayerEmail {
		extras["payerEmail"] = form.PayerEmail
	}
	if options.RequestShipping {
		addressID := firstNonEmpty(form.ShippingAddressID, s.selectedAddress)
		if address, ok := findAddress(s.addresses, addressID); ok {
			extras["shippingAddress"] = address.AsBundle()
		}
		extras["shippingOptionId"] = firstNonEmpty(form.ShippingOptionID, s.selectedShippingOption)
	}
	extras["promoCode"] = firstNonEmpty(form.PromotionCode, s.promotionCode)

	result := intent.OK(extras)
	s.finishLocked(StateCompleted, result)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Payment completed", slog.Any("extras", extras.Keys()))
	s.notifyFinished(ctx)
	return result, nil
}

// Cancel abandons the checkout. A failed checkout can still be canceled.
func (s *Session) Cancel(ctx context.Context) (intent.Result, error) {
	s.mu.Lock()
	if s.state == StateCompleted || s.state == StateCanceled {
		s.mu.Unlock()
		return intent.Result{}, ErrSessionFinished
	}
	result := intent.Canceled()
	s.finishLocked(StateCanceled, result)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Payment canceled")
	s.notifyFinished(ctx)
	return result, nil
}

func (s *Session) ensureActiveLocked() error {
	switch s.state {
	case StateStarted:
		return nil
	case StateFailed:
		return s.failure
	default:
		return ErrSessionFinished
	}
}

func (s *Session) failLocked(ctx context.Context, cause error) {
	s.state = StateFailed
	s.failure = fmt.Errorf("%w: %w", ErrUnsupportedCaller, cause)
	s.log.WarnContext(ctx, "Checkout failed", logging.Error(s.failure))
}

func (s *Session) finishLocked(state State, result intent.Result) {
	s.state = state
	s.result = &result
}

func (s *Session) notifyFinished(ctx context.Context) {
	if s.onFinish != nil {
		s.onFinish(ctx, s)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
