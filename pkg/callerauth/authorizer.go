package callerauth

import (
	"context"
	"log/slog"

	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/go-softwarelab/common/pkg/to"
)

// ChromeReleaseFingerprint is the signing key fingerprint shared by the Chrome release channels.
const ChromeReleaseFingerprint = "F0:FD:6C:5B:41:0F:25:CB:25:C3:B5:33:46:C8:97:2F:AE:30:F8:EE:74:11:DF:91:04:80:AD:6B:2D:60:DB:83"

// Trusted browser package names.
const (
	PackageChromeStable = "com.android.chrome"
	PackageChromeBeta   = "com.chrome.beta"
	PackageChromeDev    = "com.chrome.dev"
	PackageChromeCanary = "com.chrome.canary"
	PackageChromium     = "org.chromium.chrome"
)

// TrustedCaller pairs a package name with the fingerprint its signing certificate must have.
// Entries sharing a package name form one signer set: the package must be signed by all of them.
type TrustedCaller struct {
	PackageName string
	Fingerprint Fingerprint
}

// DefaultTrustedCallers returns the Chrome release channels.
// Chromium builds are signed with per-build keys, so its fingerprint has to be configured explicitly.
func DefaultTrustedCallers() []TrustedCaller {
	release := MustParseFingerprint(ChromeReleaseFingerprint)
	return []TrustedCaller{
		{PackageName: PackageChromeStable, Fingerprint: release},
		{PackageName: PackageChromeBeta, Fingerprint: release},
		{PackageName: PackageChromeDev, Fingerprint: release},
		{PackageName: PackageChromeCanary, Fingerprint: release},
	}
}

// AuthorizerConfig configures the Authorizer.
type AuthorizerConfig struct {
	TrustedCallers []TrustedCaller
	Logger         *slog.Logger
}

// WithTrustedCallers replaces the default allow-list.
func WithTrustedCallers(callers ...TrustedCaller) func(*AuthorizerConfig) {
	return func(cfg *AuthorizerConfig) {
		cfg.TrustedCallers = callers
	}
}

// WithAuthorizerLogger sets the logger of the Authorizer.
func WithAuthorizerLogger(logger *slog.Logger) func(*AuthorizerConfig) {
	return func(cfg *AuthorizerConfig) {
		cfg.Logger = logger
	}
}

// Authorizer decides whether a calling package is one of the trusted browsers.
type Authorizer struct {
	registry PackageRegistry
	trusted  map[string][]Fingerprint
	log      *slog.Logger
}

// NewAuthorizer creates an Authorizer backed by the registry.
func NewAuthorizer(registry PackageRegistry, opts ...func(*AuthorizerConfig)) *Authorizer {
	if registry == nil {
		panic("package registry is required")
	}

	cfg := to.OptionsWithDefault(AuthorizerConfig{
		TrustedCallers: DefaultTrustedCallers(),
	}, opts...)

	trusted := make(map[string][]Fingerprint, len(cfg.TrustedCallers))
	for _, caller := range cfg.TrustedCallers {
		trusted[caller.PackageName] = append(trusted[caller.PackageName], caller.Fingerprint)
	}

	return &Authorizer{
		registry: registry,
		trusted:  trusted,
		log:      logging.Child(cfg.Logger, "CallerAuthorizer"),
	}
}

// Identify resolves the identity of the package and the trust decision for it with a single registry lookup.
func (a *Authorizer) Identify(ctx context.Context, packageName string) (Caller, error) {
	identity, err := ResolveIdentity(ctx, a.registry, packageName)
	if err != nil {
		a.log.WarnContext(ctx, "Failed to look up calling package", slog.String("package", packageName), logging.Error(err))
		return Caller{Identity: identity}, err
	}
	return Caller{Identity: identity, Authorized: a.authorize(ctx, identity)}, nil
}

func (a *Authorizer) authorize(ctx context.Context, identity ApplicationIdentity) bool {
	if identity.IsZero() {
		return false
	}
	log := a.log.With(slog.String("package", identity.PackageName))

	expected, ok := a.trusted[identity.PackageName]
	switch {
	case !ok:
		log.DebugContext(ctx, "Calling package is not on the allow-list")
		return false
	case len(identity.Signatures) == 0:
		log.WarnContext(ctx, "Allow-listed calling package is not installed")
		return false
	case !identity.HasSigningCertificates(expected):
		log.WarnContext(ctx, "Calling package signature does not match")
		return false
	}
	return true
}
