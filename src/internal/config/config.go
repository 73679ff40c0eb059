// FILE: src/internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// Config is the top-level hxlogin configuration
type Config struct {
	Auth      AuthConfig      `toml:"auth"`
	Transport TransportConfig `toml:"transport"`
	Logging   *LogConfig      `toml:"logging"`
}

func defaults() *Config {
	return &Config{
		Auth: AuthConfig{
			AuthURI:               "http://localhost:8080/user/auth",
			RedirectURI:           "/ui",
			AttemptTimeoutMS:      30000,
			VerifyServerSignature: true,
			MaxAttemptsPerMinute:  0,
			AttemptBurst:          1,
			Locale:                DefaultLocale(),
		},
		Transport: TransportConfig{
			RequestTimeoutMS: 10000,
			MaxConnsPerHost:  4,
			TLS: &TLSClientConfig{
				Enabled:    false,
				MinVersion: "TLS1.2",
				MaxVersion: "TLS1.3",
			},
		},
		Logging: DefaultLogConfig(),
	}
}

// Default returns the built-in configuration without consulting any source
func Default() *Config {
	return defaults()
}

// Load builds the configuration from CLI overrides, environment, the config
// file and defaults, in that order of precedence.
func Load(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("HXLOGIN_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		// A missing config file is fine, defaults still apply
		if !errors.Is(err, lconfig.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, validateConfig(finalConfig)
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "HXLOGIN_" + env
	return env
}

// GetConfigPath resolves the config file location from the environment
func GetConfigPath() string {
	if configFile := os.Getenv("HXLOGIN_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("HXLOGIN_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("HXLOGIN_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "hxlogin.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "hxlogin.toml")
	}

	return "hxlogin.toml"
}
