// FILE: src/cmd/hxlogin/bootstrap.go
package main

import (
	"fmt"
	"strings"

	"hxlogin/src/cmd/hxlogin/commands"
	"hxlogin/src/internal/config"
	"hxlogin/src/internal/version"

	"github.com/lixenwraith/log"
)

// bootstrap loads the configuration and starts the logger for a command
func bootstrap(overrides []string) (*commands.Runtime, error) {
	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := initializeLogger(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("msg", "hxlogin starting",
		"version", version.String(),
		"config_file", config.GetConfigPath(),
		"auth_uri", cfg.Auth.AuthURI,
		"log_output", cfg.Logging.Output)

	return &commands.Runtime{
		Config: cfg,
		Logger: logger,
		Close:  shutdownLogger,
	}, nil
}

// initializeLogger sets up the logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	configArgs, err := loggerArgs(cfg, output != nil && output.IsQuiet())
	if err != nil {
		return err
	}

	if err := logger.ApplyConfigString(configArgs...); err != nil {
		return err
	}
	return logger.Start()
}

// loggerArgs maps the logging section onto logger key=value overrides
func loggerArgs(cfg *config.Config, quiet bool) ([]string, error) {
	if quiet {
		return []string{"disable_file=true", "enable_console=false"}, nil
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	configArgs := []string{fmt.Sprintf("level=%d", levelValue)}

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_console=false")

	case "stdout", "stderr", "split":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_console=true",
			"console_target="+cfg.Logging.Output)

	case "file":
		configArgs = append(configArgs, "enable_console=false")
		configureFileLogging(&configArgs, cfg)

	case "all":
		configArgs = append(configArgs, "enable_console=true")
		configureFileLogging(&configArgs, cfg)
		configureConsoleTarget(&configArgs, cfg)

	default:
		return nil, fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Console != nil && cfg.Logging.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Console.Format))
	}

	return configArgs, nil
}

// configureFileLogging sets up file-based logging parameters
func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	if cfg.Logging.File != nil {
		*configArgs = append(*configArgs,
			"disable_file=false",
			fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
			fmt.Sprintf("name=%s", cfg.Logging.File.Name),
			fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
			fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))

		if cfg.Logging.File.RetentionHours > 0 {
			*configArgs = append(*configArgs,
				fmt.Sprintf("retention_period_hrs=%.1f", cfg.Logging.File.RetentionHours))
		}
	}
}

// configureConsoleTarget sets up console output parameters
func configureConsoleTarget(configArgs *[]string, cfg *config.Config) {
	target := "stderr"
	if cfg.Logging.Console != nil && cfg.Logging.Console.Target != "" {
		target = cfg.Logging.Console.Target
	}
	*configArgs = append(*configArgs, "console_target="+target)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
