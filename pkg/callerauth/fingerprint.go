package callerauth

import (
	"encoding/hex"
	"fmt"
	"strings"

	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// FingerprintSize is the length of a SHA-256 certificate fingerprint.
const FingerprintSize = 32

// Fingerprint is the SHA-256 digest of a DER encoded signing certificate.
type Fingerprint [FingerprintSize]byte

// ParseFingerprint parses a colon delimited hex fingerprint such as "F0:FD:6C:...".
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != FingerprintSize {
		return fp, fmt.Errorf("invalid fingerprint %q: expected %d bytes, got %d", s, FingerprintSize, len(parts))
	}
	for i, part := range parts {
		if len(part) != 2 {
			return fp, fmt.Errorf("invalid fingerprint %q: byte %d is not 2-char hex", s, i)
		}
		b, err := hex.DecodeString(part)
		if err != nil {
			return fp, fmt.Errorf("invalid fingerprint %q: %w", s, err)
		}
		fp[i] = b[0]
	}
	return fp, nil
}

// MustParseFingerprint is like ParseFingerprint but panics on invalid input.
func MustParseFingerprint(s string) Fingerprint {
	fp, err := ParseFingerprint(s)
	if err != nil {
		panic(err)
	}
	return fp
}

// FingerprintOf returns the SHA-256 fingerprint of a certificate.
func FingerprintOf(certificate []byte) Fingerprint {
	var fp Fingerprint
	copy(fp[:], crypto.Sha256(certificate))
	return fp
}

// String formats the fingerprint as upper case colon delimited hex.
func (f Fingerprint) String() string {
	parts := make([]string, FingerprintSize)
	for i, b := range f {
		parts[i] = strings.ToUpper(hex.EncodeToString([]byte{b}))
	}
	return strings.Join(parts, ":")
}

func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := ParseFingerprint(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
