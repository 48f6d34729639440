// Package bundle provides Bundle, the loosely typed key/value container carried as intent extras.
//
// Values are whatever the JSON decoder produces (strings, numbers, booleans, nested objects and
// arrays), so the getters coerce leniently and report absence instead of failing.
package bundle

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
)

// Bundle is a string keyed map of primitives, nested bundles and arrays.
type Bundle map[string]any

// Parse decodes a JSON object into a Bundle.
func Parse(data []byte) (Bundle, error) {
	var b Bundle
	if err := sonic.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return b, nil
}

// Marshal encodes the bundle as a JSON object.
func (b Bundle) Marshal() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return sonic.Marshal(map[string]any(b))
}

// Has reports whether the key is present with a non-null value.
func (b Bundle) Has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

// Keys returns the bundle keys in sorted order.
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetString returns the value under key coerced to a string.
// Nested bundles and arrays are not strings.
func (b Bundle) GetString(key string) (string, bool) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case map[string]any, Bundle, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// GetStringOr returns the string under key or def when absent.
func (b Bundle) GetStringOr(key, def string) string {
	if s, ok := b.GetString(key); ok {
		return s
	}
	return def
}

// GetBool returns the value under key coerced to a bool, or def when absent or not convertible.
func (b Bundle) GetBool(key string, def bool) bool {
	v, ok := b[key]
	if !ok || v == nil {
		return def
	}
	res, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return res
}

// GetStringList returns the array under key as strings.
func (b Bundle) GetStringList(key string) ([]string, bool) {
	switch v := b[key].(type) {
	case []string:
		return v, true
	case []any:
		res, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, false
		}
		return res, true
	default:
		return nil, false
	}
}

// GetBundle returns the nested bundle under key.
func (b Bundle) GetBundle(key string) (Bundle, bool) {
	return asBundle(b[key])
}

// GetBundleArray returns the array of nested bundles under key.
// Elements that are not bundles are skipped.
func (b Bundle) GetBundleArray(key string) ([]Bundle, bool) {
	var items []any
	switch v := b[key].(type) {
	case []Bundle:
		return v, true
	case []map[string]any:
		res := make([]Bundle, 0, len(v))
		for _, it := range v {
			res = append(res, it)
		}
		return res, true
	case []any:
		items = v
	default:
		return nil, false
	}

	res := make([]Bundle, 0, len(items))
	for _, it := range items {
		if nested, ok := asBundle(it); ok {
			res = append(res, nested)
		}
	}
	return res, true
}

// GetBytes returns the byte array under key. On the wire byte arrays are base64 strings.
func (b Bundle) GetBytes(key string) ([]byte, bool) {
	switch v := b[key].(type) {
	case []byte:
		return v, true
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, false
		}
		return decoded, true
	default:
		return nil, false
	}
}

// GetCertificateChain returns the DER certificates of an array of {"certificate": <bytes>} bundles.
func (b Bundle) GetCertificateChain(key string) [][]byte {
	items, ok := b.GetBundleArray(key)
	if !ok {
		return nil
	}
	chain := make([][]byte, 0, len(items))
	for _, item := range items {
		if cert, ok := item.GetBytes("certificate"); ok {
			chain = append(chain, cert)
		}
	}
	return chain
}

// GetStringMap returns the nested bundle under key with every value coerced to a string.
// Missing values resolve to def.
func (b Bundle) GetStringMap(key, def string) map[string]string {
	nested, ok := b.GetBundle(key)
	if !ok {
		return nil
	}
	res := make(map[string]string, len(nested))
	for k := range nested {
		res[k] = nested.GetStringOr(k, def)
	}
	return res
}

func asBundle(v any) (Bundle, bool) {
	switch nested := v.(type) {
	case Bundle:
		return nested, true
	case map[string]any:
		return nested, true
	case nil, string:
		return nil, false
	default:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, false
		}
		return m, true
	}
}
