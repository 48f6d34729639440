package testapps

import (
	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
)

var (
	Chrome = App{
		Name:        "Chrome",
		PackageName: callerauth.PackageChromeStable,
		Certificate: []byte("chrome release signing certificate"),
	}

	ChromeBeta = App{
		Name:        "ChromeBeta",
		PackageName: callerauth.PackageChromeBeta,
		Certificate: []byte("chrome release signing certificate"),
	}

	// Intruder is installed but not on the allow-list.
	Intruder = App{
		Name:        "Intruder",
		PackageName: "com.evil.paymenthijack",
		Certificate: []byte("intruder signing certificate"),
	}

	// Uninstalled is not known to the package registry.
	Uninstalled = App{
		Name:        "Uninstalled",
		PackageName: "com.example.uninstalled",
	}
)

type App struct {
	Name        string
	PackageName string
	Certificate []byte
}

// Identity is the identity the app has once resolved through the registry of Installed apps.
func (a App) Identity() callerauth.ApplicationIdentity {
	identity := callerauth.ApplicationIdentity{PackageName: a.PackageName}
	if a.Certificate != nil {
		identity.Signatures = [][]byte{a.Certificate}
	}
	return identity
}

func (a App) Fingerprint() callerauth.Fingerprint {
	return callerauth.FingerprintOf(a.Certificate)
}

// Installed returns the apps present in the package registry.
func Installed() []App {
	return []App{Chrome, ChromeBeta, Intruder}
}

// Browsers returns the installed browsers.
func Browsers() []App {
	return []App{Chrome, ChromeBeta}
}

// Trusted returns the allow-list entries of the apps.
func Trusted(apps ...App) []callerauth.TrustedCaller {
	trusted := make([]callerauth.TrustedCaller, 0, len(apps))
	for _, app := range apps {
		trusted = append(trusted, callerauth.TrustedCaller{PackageName: app.PackageName, Fingerprint: app.Fingerprint()})
	}
	return trusted
}
