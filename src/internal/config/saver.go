// FILE: src/internal/config/saver.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lconfig "github.com/lixenwraith/config"
)

// SaveToFile writes the configuration as TOML to path, creating the parent
// directory. The written file loads back through Load.
func (c *Config) SaveToFile(path string) error {
	if path == "" {
		return fmt.Errorf("cannot save config: path is empty")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Only the target's own values are written, never an existing file,
	// the environment or process args.
	lcfg, err := lconfig.NewBuilder().
		WithTarget(c).
		WithArgs(nil).
		WithFileFormat("toml").
		WithSources(lconfig.SourceDefault).
		Build()
	if err != nil && !errors.Is(err, lconfig.ErrConfigNotFound) {
		return fmt.Errorf("failed to create config builder: %w", err)
	}

	if err := lcfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
