// FILE: src/internal/config/tls.go
package config

import (
	"fmt"
	"os"
	"strings"
)

// TLSClientConfig configures TLS for the transport when auth_uri is https
type TLSClientConfig struct {
	Enabled bool `toml:"enabled"`

	// mTLS
	ClientCertFile string `toml:"client_cert_file"`
	ClientKeyFile  string `toml:"client_key_file"`

	// CA to trust for the server certificate, system pool if empty
	ServerCAFile string `toml:"server_ca_file"`
	ServerName   string `toml:"server_name"`

	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	MinVersion string `toml:"min_version"` // "TLS1.2"/"TLS12", "TLS1.3"/"TLS13", any case
	MaxVersion string `toml:"max_version"`

	// Comma-separated cipher suite names
	CipherSuites string `toml:"cipher_suites"`
}

func validateTLS(tls *TLSClientConfig) error {
	if tls == nil || !tls.Enabled {
		return nil
	}

	if (tls.ClientCertFile == "") != (tls.ClientKeyFile == "") {
		return fmt.Errorf("tls: both client_cert_file and client_key_file must be set for mTLS")
	}

	for name, path := range map[string]string{
		"client_cert_file": tls.ClientCertFile,
		"client_key_file":  tls.ClientKeyFile,
		"server_ca_file":   tls.ServerCAFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tls: %s is not accessible: %w", name, err)
		}
	}

	minRank, ok := tlsVersionRank(tls.MinVersion)
	if !ok {
		return fmt.Errorf("tls: invalid min_version: %s", tls.MinVersion)
	}
	maxRank, ok := tlsVersionRank(tls.MaxVersion)
	if !ok {
		return fmt.Errorf("tls: invalid max_version: %s", tls.MaxVersion)
	}
	if minRank != 0 && maxRank != 0 && minRank > maxRank {
		return fmt.Errorf("tls: min_version is above max_version")
	}

	return nil
}

// tlsVersionRank orders the accepted version names, 0 meaning unset.
// The names match what the tls client manager parses.
func tlsVersionRank(version string) (int, bool) {
	switch strings.ToUpper(version) {
	case "":
		return 0, true
	case "TLS1.2", "TLS12":
		return 12, true
	case "TLS1.3", "TLS13":
		return 13, true
	default:
		return 0, false
	}
}
