// Package fileregistry provides a static PackageRegistry loaded from a YAML document.
//
// The document maps package names to their base64 encoded DER signing certificates:
//
//	packages:
//	  com.android.chrome:
//	    - MIIDxTCCAq2gAwIBAgIJAP...
package fileregistry

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"gopkg.in/yaml.v3"
)

type document struct {
	Packages map[string][]string `yaml:"packages"`
}

// Registry is an in-memory PackageRegistry.
type Registry struct {
	mu       sync.RWMutex
	packages map[string][][]byte
}

// New creates a registry holding the given packages.
func New(packages map[string][][]byte) *Registry {
	r := &Registry{packages: make(map[string][][]byte, len(packages))}
	for name, certs := range packages {
		r.packages[name] = cloneCertificates(certs)
	}
	return r
}

// Load reads a registry document from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package registry file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a registry document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode package registry: %w", err)
	}

	packages := make(map[string][][]byte, len(doc.Packages))
	for name, encoded := range doc.Packages {
		certs := make([][]byte, 0, len(encoded))
		for i, cert := range encoded {
			der, err := base64.StdEncoding.DecodeString(cert)
			if err != nil {
				return nil, fmt.Errorf("package %s certificate %d is not valid base64: %w", name, i, err)
			}
			certs = append(certs, der)
		}
		packages[name] = certs
	}
	return &Registry{packages: packages}, nil
}

// Marshal encodes the registry as a YAML document.
func (r *Registry) Marshal() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := document{Packages: make(map[string][]string, len(r.packages))}
	for name, certs := range r.packages {
		encoded := make([]string, 0, len(certs))
		for _, cert := range certs {
			encoded = append(encoded, base64.StdEncoding.EncodeToString(cert))
		}
		doc.Packages[name] = encoded
	}
	return yaml.Marshal(doc)
}

// SigningCertificates implements callerauth.PackageRegistry.
func (r *Registry) SigningCertificates(_ context.Context, packageName string) ([][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	certs, ok := r.packages[packageName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", callerauth.ErrPackageNotFound, packageName)
	}
	return cloneCertificates(certs), nil
}

// Install adds or replaces a package.
func (r *Registry) Install(packageName string, certificates ...[]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[packageName] = cloneCertificates(certificates)
}

// Packages returns the registered package names in sorted order.
func (r *Registry) Packages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func cloneCertificates(certs [][]byte) [][]byte {
	res := make([][]byte, len(certs))
	for i, cert := range certs {
		res[i] = slices.Clone(cert)
	}
	return res
}
