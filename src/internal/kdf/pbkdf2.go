// FILE: src/internal/kdf/pbkdf2.go
package kdf

import (
	"fmt"

	"hxlogin/src/internal/hashing"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2SHA256 derives keyLen bytes from password and salt using
// HMAC-SHA-256 as the PRF. The PRF is SHA-256 regardless of the hash the
// server negotiated, only the output length follows it.
func PBKDF2SHA256(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iteration count must be positive: %d", iterations)
	}
	if keyLen < 1 {
		return nil, fmt.Errorf("key length must be positive: %d", keyLen)
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, hashing.SHA256.New), nil
}
