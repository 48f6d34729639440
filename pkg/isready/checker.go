// Package isready answers the browser's IS_READY_TO_PAY query.
package isready

import (
	"context"
	"log/slog"

	"github.com/bsv-blockchain/go-samplepay/pkg/bundle"
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
	"github.com/go-softwarelab/common/pkg/to"
)

// Config configures the Checker.
type Config struct {
	MethodName     string
	AllowUntrusted bool
	Logger         *slog.Logger
}

func WithMethodName(methodName string) func(*Config) {
	return func(cfg *Config) {
		cfg.MethodName = methodName
	}
}

// WithAllowUntrusted makes the checker answer true for any caller once the params are valid.
// Untrusted callers are only logged.
func WithAllowUntrusted(allow bool) func(*Config) {
	return func(cfg *Config) {
		cfg.AllowUntrusted = allow
	}
}

func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

type Checker struct {
	cfg Config
	log *slog.Logger
}

func New(opts ...func(*Config)) *Checker {
	cfg := to.OptionsWithDefault(Config{
		MethodName: constants.DefaultMethodName,
	}, opts...)

	return &Checker{
		cfg: cfg,
		log: logging.Child(cfg.Logger, "IsReadyToPay"),
	}
}

// IsReadyToPay reports whether SamplePay can handle the request coming from caller.
func (c *Checker) IsReadyToPay(ctx context.Context, caller callerauth.Caller, extras bundle.Bundle) bool {
	params := model.IsReadyToPayParamsFromBundle(extras)
	if !params.SupportsOnly(c.cfg.MethodName) {
		c.log.WarnContext(ctx, "Rejecting IS_READY_TO_PAY with invalid parameters",
			slog.String("caller", caller.Identity.PackageName),
			slog.Any("methodNames", params.MethodNames),
		)
		return false
	}

	if caller.Authorized {
		return true
	}
	if c.cfg.AllowUntrusted {
		c.log.InfoContext(ctx, "Answering IS_READY_TO_PAY for an untrusted caller", slog.String("caller", caller.Identity.PackageName))
		return true
	}

	c.log.WarnContext(ctx, "Rejecting IS_READY_TO_PAY from an untrusted caller", slog.String("caller", caller.Identity.PackageName))
	return false
}
