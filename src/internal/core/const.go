// FILE: src/internal/core/const.go
package core

// Wire constants shared by the exchanges
const (
	// gs2 header for "no channel binding"
	GS2Header = "n,,"

	// Characters in a client nonce
	NonceLength = 24

	HelloScheme = "HELLO"
)

// Header names
const (
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderAuthInfo        = "Authentication-Info"
	HeaderLoginErr        = "x-hx-login-err"
)

// SCRAM key labels
const (
	ClientKeyLabel = "Client Key"
	ServerKeyLabel = "Server Key"
)
