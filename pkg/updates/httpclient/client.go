// Package httpclient reaches the browser's payment details update service over HTTP.
//
// Every change request registers a one-shot callback and posts
//
//	{"<change field>": ..., "callbackId": "...", "callbackPath": "/payment-details-update/callbacks/..."}
//
// to the service. The browser either answers later through the callback routes (202 Accepted),
// or answers inline with {"updatedPaymentDetails": {...}} or {"notUpdated": true}.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/sony/gobreaker"
)

// ErrInvalidServiceURL is returned for service URLs that are not absolute http(s) URLs.
var ErrInvalidServiceURL = errors.New("invalid update service URL")

// BreakerConfig configures the circuit breaker kept per browser host.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	OpenTimeout         time.Duration
	ConsecutiveFailures uint32
}

// Config configures the Factory.
type Config struct {
	Timeout        time.Duration
	AppPackageName string
	Breaker        BreakerConfig
	Logger         *slog.Logger
}

func WithTimeout(timeout time.Duration) func(*Config) {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

func WithAppPackageName(name string) func(*Config) {
	return func(cfg *Config) {
		cfg.AppPackageName = name
	}
}

func WithBreaker(breaker BreakerConfig) func(*Config) {
	return func(cfg *Config) {
		cfg.Breaker = breaker
	}
}

func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Timeout:        5 * time.Second,
		AppPackageName: constants.DefaultAppPackageName,
		Breaker: BreakerConfig{
			MaxRequests:         1,
			Interval:            time.Minute,
			OpenTimeout:         30 * time.Second,
			ConsecutiveFailures: 5,
		},
	}
}

// Factory creates update service clients sharing one HTTP client and one breaker per browser host.
type Factory struct {
	rest      *resty.Client
	callbacks *updates.CallbackRegistry
	cfg       Config
	log       *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewFactory creates a Factory registering callbacks in the given registry.
func NewFactory(callbacks *updates.CallbackRegistry, opts ...func(*Config)) *Factory {
	if callbacks == nil {
		panic("callback registry is required")
	}
	cfg := to.OptionsWithDefault(DefaultConfig(), opts...)

	return &Factory{
		rest:      resty.New().SetTimeout(cfg.Timeout),
		callbacks: callbacks,
		cfg:       cfg,
		log:       logging.Child(cfg.Logger, "UpdateServiceClient"),
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Service returns a client for the update service at serviceURL. Callbacks it registers are owned by owner.
func (f *Factory) Service(serviceURL string, owner callerauth.ApplicationIdentity) (updates.Service, error) {
	u, err := url.Parse(serviceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidServiceURL, serviceURL)
	}

	return &service{
		factory: f,
		baseURL: strings.TrimSuffix(serviceURL, "/"),
		owner:   owner,
		breaker: f.breakerFor(u.Host),
	}, nil
}

func (f *Factory) breakerFor(host string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb
	}

	threshold := f.cfg.Breaker.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "UpdateService(" + host + ")",
		MaxRequests: f.cfg.Breaker.MaxRequests,
		Interval:    f.cfg.Breaker.Interval,
		Timeout:     f.cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, fromState gobreaker.State, toState gobreaker.State) {
			f.log.Warn("Circuit breaker changed state",
				slog.String("breaker", name),
				slog.String("from", fromState.String()),
				slog.String("to", toState.String()),
			)
		},
	})
	f.breakers[host] = cb
	return cb
}

type changeResponse struct {
	UpdatedPaymentDetails bundle.Bundle `json:"updatedPaymentDetails,omitempty"`
	NotUpdated            bool          `json:"notUpdated,omitempty"`
}

type service struct {
	factory *Factory
	baseURL string
	owner   callerauth.ApplicationIdentity
	breaker *gobreaker.CircuitBreaker
}

func (s *service) ChangePaymentMethod(ctx context.Context, methodData bundle.Bundle, callback updates.Callback) error {
	return s.change(ctx, constants.ChangePaymentMethodPath, bundle.Bundle{"methodData": methodData}, callback)
}

func (s *service) ChangeShippingOption(ctx context.Context, shippingOptionID string, callback updates.Callback) error {
	return s.change(ctx, constants.ChangeShippingOptionPath, bundle.Bundle{"shippingOptionId": shippingOptionID}, callback)
}

func (s *service) ChangeShippingAddress(ctx context.Context, shippingAddress bundle.Bundle, callback updates.Callback) error {
	return s.change(ctx, constants.ChangeShippingAddressPath, bundle.Bundle{"shippingAddress": shippingAddress}, callback)
}

func (s *service) change(ctx context.Context, path string, payload bundle.Bundle, callback updates.Callback) error {
	callbackID := s.factory.callbacks.Register(s.owner, callback)
	payload["callbackId"] = callbackID
	payload["callbackPath"] = constants.UpdateCallbacksPath + "/" + callbackID

	body, err := payload.Marshal()
	if err != nil {
		s.factory.callbacks.Remove(callbackID)
		return fmt.Errorf("failed to encode change request: %w", err)
	}

	log := s.factory.log.With(slog.String("path", path), slog.String("callbackId", callbackID))

	res, err := s.breaker.Execute(func() (any, error) {
		resp, err := s.factory.rest.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader(constants.HeaderCallingPackage, s.factory.cfg.AppPackageName).
			SetBody(body).
			Post(s.baseURL + path)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("update service responded with status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		s.factory.callbacks.Remove(callbackID)
		log.WarnContext(ctx, "Change request failed", logging.Error(err))
		return fmt.Errorf("%w: %w", updates.ErrServiceUnavailable, err)
	}

	resp := res.(*resty.Response)
	if len(resp.Body()) == 0 {
		log.DebugContext(ctx, "Change request accepted, awaiting callback", slog.Int("status", resp.StatusCode()))
		return nil
	}

	var answer changeResponse
	if err := sonic.Unmarshal(resp.Body(), &answer); err != nil {
		log.WarnContext(ctx, "Ignoring undecodable inline answer", logging.Error(err))
		return nil
	}

	switch {
	case answer.UpdatedPaymentDetails != nil:
		if cb, err := s.factory.callbacks.Take(callbackID, s.owner); err == nil {
			cb.UpdateWith(ctx, answer.UpdatedPaymentDetails)
		}
	case answer.NotUpdated:
		if cb, err := s.factory.callbacks.Take(callbackID, s.owner); err == nil {
			cb.PaymentDetailsNotUpdated(ctx)
		}
	}
	return nil
}
