// FILE: src/internal/config/auth.go
package config

import (
	"fmt"
	"net/url"
)

// AuthConfig controls the login client
type AuthConfig struct {
	// Endpoint that answers HELLO / SCRAM / plaintext requests
	AuthURI string `toml:"auth_uri"`

	// Destination reported to the host after a successful login
	RedirectURI string `toml:"redirect_uri"`

	// Upper bound for a whole attempt, all rounds included
	AttemptTimeoutMS int64 `toml:"attempt_timeout_ms"`

	// Check the server signature when the final response carries one
	VerifyServerSignature bool `toml:"verify_server_signature"`

	// Client-side throttle, 0 disables
	MaxAttemptsPerMinute int64 `toml:"max_attempts_per_minute"`
	AttemptBurst         int64 `toml:"attempt_burst"`

	Locale LocaleConfig `toml:"locale"`
}

// LocaleConfig holds the user-facing strings
type LocaleConfig struct {
	Login     string `toml:"login"`
	LoggingIn string `toml:"logging_in"`
	BadCreds  string `toml:"bad_creds"`
	CheckLogs string `toml:"check_logs"`
	Timeout   string `toml:"timeout"`
	Canceled  string `toml:"canceled"`
}

// DefaultLocale returns the English strings
func DefaultLocale() LocaleConfig {
	return LocaleConfig{
		Login:     "Login",
		LoggingIn: "Logging in",
		BadCreds:  "Invalid username or password",
		CheckLogs: "check logs",
		Timeout:   "Login timed out",
		Canceled:  "Login canceled",
	}
}

func validateAuth(auth *AuthConfig) error {
	if auth.AuthURI == "" {
		return fmt.Errorf("auth_uri: value cannot be empty")
	}

	u, err := url.Parse(auth.AuthURI)
	if err != nil {
		return fmt.Errorf("invalid auth_uri: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("auth_uri must use http or https: %s", auth.AuthURI)
	}
	if u.Host == "" {
		return fmt.Errorf("auth_uri has no host: %s", auth.AuthURI)
	}

	if auth.AttemptTimeoutMS < 1 {
		return fmt.Errorf("attempt_timeout_ms must be positive: %d", auth.AttemptTimeoutMS)
	}

	if auth.MaxAttemptsPerMinute < 0 {
		return fmt.Errorf("max_attempts_per_minute cannot be negative: %d", auth.MaxAttemptsPerMinute)
	}
	if auth.MaxAttemptsPerMinute > 0 && auth.AttemptBurst < 1 {
		return fmt.Errorf("attempt_burst must be positive when throttling: %d", auth.AttemptBurst)
	}

	return nil
}
