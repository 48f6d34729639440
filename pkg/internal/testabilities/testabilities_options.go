package testabilities

import (
	"log/slog"

	"github.com/bsv-blockchain/go-samplepay/pkg/internal/testabilities/testapps"
)

type Options struct {
	logger      *slog.Logger
	trustedApps []testapps.App
}

// WithTrustedApps replaces the browsers the app trusts, by default Chrome and Chrome Beta.
func WithTrustedApps(apps ...testapps.App) func(*Options) {
	return func(options *Options) {
		options.trustedApps = apps
	}
}
