// FILE: src/internal/config/transport.go
package config

import "fmt"

// TransportConfig controls the HTTP client
type TransportConfig struct {
	// Per-request deadline
	RequestTimeoutMS int64 `toml:"request_timeout_ms"`

	MaxConnsPerHost int64 `toml:"max_conns_per_host"`

	// Defaults to hxlogin/<version>
	UserAgent string `toml:"user_agent"`

	TLS *TLSClientConfig `toml:"tls"`
}

func validateTransport(t *TransportConfig) error {
	if t.RequestTimeoutMS < 1 {
		return fmt.Errorf("request_timeout_ms must be positive: %d", t.RequestTimeoutMS)
	}
	if t.MaxConnsPerHost < 1 {
		return fmt.Errorf("max_conns_per_host must be positive: %d", t.MaxConnsPerHost)
	}
	return validateTLS(t.TLS)
}
