package callerauth_test

import (
	"context"
	"errors"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
)

type fakeRegistry map[string][][]byte

func (r fakeRegistry) SigningCertificates(_ context.Context, packageName string) ([][]byte, error) {
	certs, ok := r[packageName]
	if !ok {
		return nil, callerauth.ErrPackageNotFound
	}
	return certs, nil
}

type failingRegistry struct{}

var errRegistryDown = errors.New("registry down")

func (failingRegistry) SigningCertificates(context.Context, string) ([][]byte, error) {
	return nil, errRegistryDown
}

var (
	chromeCert  = []byte("chrome release certificate")
	otherCert   = []byte("some other developer certificate")
	chromeFP    = callerauth.FingerprintOf(chromeCert)
	otherFP     = callerauth.FingerprintOf(otherCert)
	testPackage = "com.example.android.samplepay"
)
