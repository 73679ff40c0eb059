// FILE: src/internal/kdf/pbkdf2_test.go
package kdf

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2SHA256_Vectors(t *testing.T) {
	testCases := []struct {
		name       string
		password   string
		salt       string
		iterations int
		keyLen     int
		expected   string
	}{
		{
			name:     "OneIteration",
			password: "password", salt: "salt", iterations: 1, keyLen: 32,
			expected: "120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b",
		},
		{
			name:     "TwoIterations",
			password: "password", salt: "salt", iterations: 2, keyLen: 32,
			expected: "ae4d0c95af6b46d32d0adff928f06dd02a303f8ef3c251dfd6e2d85a95474c43",
		},
		{
			name:     "4096Iterations",
			password: "password", salt: "salt", iterations: 4096, keyLen: 32,
			expected: "c5e478d59288c841aa530db6845c4c8d962893a001ce4e11a4963873aa98134a",
		},
		{
			// RFC 7914 section 11
			name:     "TwoBlocks",
			password: "passwd", salt: "salt", iterations: 1, keyLen: 64,
			expected: "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc" +
				"49ca9cccf179b645991664b39d77ef317c71b845b1e30bd509112041d3a19783",
		},
		{
			name:     "Truncated",
			password: "password", salt: "salt", iterations: 1, keyLen: 20,
			expected: "120fb6cffcf8b32c43e7225256c4f837a86548c9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := PBKDF2SHA256([]byte(tc.password), []byte(tc.salt), tc.iterations, tc.keyLen)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, hex.EncodeToString(key))
		})
	}
}

func TestPBKDF2SHA256_InvalidParams(t *testing.T) {
	_, err := PBKDF2SHA256([]byte("p"), []byte("s"), 0, 32)
	assert.Error(t, err)

	_, err = PBKDF2SHA256([]byte("p"), []byte("s"), 1, 0)
	assert.Error(t, err)
}
