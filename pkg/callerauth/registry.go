package callerauth

import (
	"context"
	"errors"
)

// ErrPackageNotFound is returned by a PackageRegistry for unknown package names.
var ErrPackageNotFound = errors.New("package not found")

// PackageRegistry resolves the signing certificates of installed packages.
type PackageRegistry interface {
	// SigningCertificates returns the DER encoded signing certificates of the package, in order.
	// Unknown packages yield ErrPackageNotFound.
	SigningCertificates(ctx context.Context, packageName string) ([][]byte, error)
}
