package callerauth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// ApplicationIdentity identifies a calling application by package name and signing certificates.
type ApplicationIdentity struct {
	PackageName string   `json:"packageName"`
	Signatures  [][]byte `json:"signatures,omitempty"`
}

// Equal reports whether both identities have the same package name and the same certificates in the same order.
func (id ApplicationIdentity) Equal(other ApplicationIdentity) bool {
	if id.PackageName != other.PackageName || len(id.Signatures) != len(other.Signatures) {
		return false
	}
	for i := range id.Signatures {
		if !bytes.Equal(id.Signatures[i], other.Signatures[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether the identity carries no package name.
func (id ApplicationIdentity) IsZero() bool {
	return id.PackageName == ""
}

func (id ApplicationIdentity) String() string {
	if id.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s (%d signatures)", id.PackageName, len(id.Signatures))
}

// HasSigningCertificates reports whether the identity is signed by exactly the expected set of certificates.
// Every signer has to match when the package is signed with multiple keys.
func (id ApplicationIdentity) HasSigningCertificates(expected []Fingerprint) bool {
	set := make(map[Fingerprint]struct{}, len(expected))
	for _, fp := range expected {
		set[fp] = struct{}{}
	}
	if len(id.Signatures) != len(set) {
		return false
	}
	for _, cert := range id.Signatures {
		if _, ok := set[FingerprintOf(cert)]; !ok {
			return false
		}
	}
	return true
}

// ResolveIdentity returns the identity of the package. Unknown packages resolve to an identity without signatures.
func ResolveIdentity(ctx context.Context, registry PackageRegistry, packageName string) (ApplicationIdentity, error) {
	identity := ApplicationIdentity{PackageName: packageName}
	if packageName == "" {
		return identity, nil
	}

	certificates, err := registry.SigningCertificates(ctx, packageName)
	if errors.Is(err, ErrPackageNotFound) {
		return identity, nil
	}
	if err != nil {
		return identity, fmt.Errorf("failed to resolve signatures of %s: %w", packageName, err)
	}
	identity.Signatures = certificates
	return identity, nil
}

// Caller is the identity of the calling application together with the trust decision made for it.
type Caller struct {
	Identity   ApplicationIdentity `json:"identity"`
	Authorized bool                `json:"authorized"`
}

// Unknown reports whether the request carried no calling package at all.
func (c Caller) Unknown() bool {
	return c.Identity.IsZero()
}
