// FILE: src/internal/hashing/hashing.go
package hashing

import (
	"crypto/hmac"
	"crypto/sha1"
	"errors"
	"fmt"
	"hash"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

// ErrUnsupportedHash is returned by Lookup for names outside the table
var ErrUnsupportedHash = errors.New("unsupported hash function")

// Spec is a digest/HMAC strategy selected by the challenge "hash" parameter
type Spec struct {
	Name    string
	New     func() hash.Hash
	KeyBits int
}

// SHA1 produces 160-bit keys
var SHA1 = Spec{Name: "sha-1", New: sha1.New, KeyBits: 160}

// SHA256 produces 256-bit keys
var SHA256 = Spec{Name: "sha-256", New: sha256.New, KeyBits: 256}

var specs = map[string]Spec{
	SHA1.Name:   SHA1,
	SHA256.Name: SHA256,
}

// Lookup resolves a hash name case-insensitively. A fresh copy is returned
// on each call so nothing is shared between attempts.
func Lookup(name string) (Spec, error) {
	spec, ok := specs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
	return spec, nil
}

// KeyLen returns the derived key length in bytes
func (s Spec) KeyLen() int {
	return s.KeyBits / 8
}

// Digest returns H(b)
func (s Spec) Digest(b []byte) []byte {
	h := s.New()
	h.Write(b)
	return h.Sum(nil)
}

// HMAC returns HMAC(key, b)
func (s Spec) HMAC(key, b []byte) []byte {
	mac := hmac.New(s.New, key)
	mac.Write(b)
	return mac.Sum(nil)
}

// Equal compares two MACs in constant time
func Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}
