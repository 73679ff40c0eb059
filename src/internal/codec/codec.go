// FILE: src/internal/codec/codec.go
package codec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the 64-symbol table used for nonces (standard base64 order).
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// ErrLengthMismatch is returned by XOR when operand lengths differ
var ErrLengthMismatch = errors.New("xor operands differ in length")

// EncodeBase64 returns standard padded base64
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes standard padded base64
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// EncodeBase64URL returns base64 with '+' and '/' replaced by '-' and '_'
// and the trailing padding stripped.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL reverses EncodeBase64URL. Input in the standard
// alphabet, padded or not, is accepted as well since servers are not
// consistent about which form they emit.
func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	if rem := len(s) % 4; rem != 0 {
		if rem == 1 {
			return nil, fmt.Errorf("invalid base64 length %d", len(s))
		}
		s += strings.Repeat("=", 4-rem)
	}
	return base64.StdEncoding.DecodeString(s)
}

// EncodeHex returns lower-case hex
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// UTF8 returns the UTF-8 encoding of s. Go strings already hold UTF-8,
// invalid sequences are replaced so the output is always well formed.
func UTF8(s string) []byte {
	return []byte(strings.ToValidUTF8(s, "�"))
}

// XOR returns a ^ b for equal-length inputs
func XOR(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// Nonce returns n characters drawn uniformly from Alphabet using crypto/rand
func Nonce(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("nonce length must be positive: %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	// 256 is a multiple of 64, masking keeps the distribution uniform
	for i, b := range buf {
		buf[i] = Alphabet[b&0x3F]
	}
	return string(buf), nil
}

// Zero overwrites b in place
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
