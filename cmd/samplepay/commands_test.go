package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	fileregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFingerprints(t *testing.T) {
	first := []byte("first certificate")
	second := []byte("second certificate")

	t.Run("DER", func(t *testing.T) {
		// given:
		var out bytes.Buffer

		// when:
		err := printFingerprints(&out, first)

		// then:
		require.NoError(t, err)
		assert.Equal(t, callerauth.FingerprintOf(first).String()+"\n", out.String())
	})

	t.Run("PEM bundle", func(t *testing.T) {
		// given:
		data := append(
			pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: first}),
			pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: second})...,
		)
		var out bytes.Buffer

		// when:
		err := printFingerprints(&out, data)

		// then:
		require.NoError(t, err)
		assert.Equal(t, []string{
			callerauth.FingerprintOf(first).String(),
			callerauth.FingerprintOf(second).String(),
		}, strings.Fields(out.String()))
	})
}

func TestFingerprintCommand(t *testing.T) {
	// given:
	path := filepath.Join(t.TempDir(), "cert.der")
	require.NoError(t, os.WriteFile(path, []byte("certificate"), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"fingerprint", path})

	// when:
	err := cmd.Execute()

	// then:
	require.NoError(t, err)
	assert.Equal(t, callerauth.FingerprintOf([]byte("certificate")).String()+"\n", out.String())
}

func TestIdentityCommand(t *testing.T) {
	// given:
	certificate := []byte("chrome certificate")
	dir := t.TempDir()
	packages := filepath.Join(dir, "packages.yaml")
	registryFile := "packages:\n  com.android.chrome:\n    - " + base64.StdEncoding.EncodeToString(certificate) + "\n"
	require.NoError(t, os.WriteFile(packages, []byte(registryFile), 0o600))

	configFile := filepath.Join(dir, "samplepay.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"registry:\n  file: "+packages+"\ntrusted_callers:\n  - package: com.android.chrome\n    fingerprint: "+
			callerauth.FingerprintOf(certificate).String()+"\n"), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", configFile, "identity", "com.android.chrome"})

	// when:
	err := cmd.Execute()

	// then:
	require.NoError(t, err)
	assert.Contains(t, out.String(), "package:    com.android.chrome")
	assert.Contains(t, out.String(), callerauth.FingerprintOf(certificate).String())
	assert.Contains(t, out.String(), "trusted:    true")
}

func TestRegistryImportRequiresPostgres(t *testing.T) {
	// given:
	cmd := newRootCmd()
	cmd.SetArgs([]string{"registry", "import", "packages.yaml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// when:
	err := cmd.Execute()

	// then:
	require.ErrorIs(t, err, errPostgresRequired)
}

type recordingWriter struct {
	packages map[string][][]byte
}

func (w *recordingWriter) PutSigningCertificates(_ context.Context, packageName string, certificates [][]byte) error {
	w.packages[packageName] = certificates
	return nil
}

type recordingCache struct {
	invalidated []string
	err         error
}

func (c *recordingCache) Invalidate(_ context.Context, packageName string) error {
	if c.err != nil {
		return c.err
	}
	c.invalidated = append(c.invalidated, packageName)
	return nil
}

func TestImportPackages(t *testing.T) {
	newSource := func() *fileregistry.Registry {
		return fileregistry.New(map[string][][]byte{
			"com.android.chrome": {[]byte("new chrome certificate")},
			"com.chrome.beta":    {[]byte("new beta certificate")},
		})
	}

	t.Run("imported packages are dropped from the cache", func(t *testing.T) {
		// given:
		target := &recordingWriter{packages: map[string][][]byte{}}
		cache := &recordingCache{}

		// when:
		imported, err := importPackages(t.Context(), newSource(), target, cache, slog.New(slog.DiscardHandler))

		// then:
		require.NoError(t, err)
		assert.Equal(t, 2, imported)
		assert.Equal(t, [][]byte{[]byte("new chrome certificate")}, target.packages["com.android.chrome"])
		assert.ElementsMatch(t, []string{"com.android.chrome", "com.chrome.beta"}, cache.invalidated)
	})

	t.Run("without a cache", func(t *testing.T) {
		// given:
		target := &recordingWriter{packages: map[string][][]byte{}}

		// when:
		imported, err := importPackages(t.Context(), newSource(), target, nil, slog.New(slog.DiscardHandler))

		// then:
		require.NoError(t, err)
		assert.Equal(t, 2, imported)
		assert.Len(t, target.packages, 2)
	})

	t.Run("cache failure is reported", func(t *testing.T) {
		// given:
		target := &recordingWriter{packages: map[string][][]byte{}}
		cache := &recordingCache{err: errors.New("redis down")}

		// when:
		_, err := importPackages(t.Context(), newSource(), target, cache, slog.New(slog.DiscardHandler))

		// then:
		require.ErrorIs(t, err, cache.err)
	})
}
