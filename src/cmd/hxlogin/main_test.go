// FILE: src/cmd/hxlogin/main_test.go
package main

import (
	"bytes"
	"fmt"
	"testing"

	"hxlogin/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputHandler(t *testing.T) {
	t.Run("Normal", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		o := newOutputHandler(false, &stdout, &stderr)

		fmt.Fprintln(o.Results(), "status: 401")
		fmt.Fprintln(o.Diagnostics(), "Logging in...")
		o.Error("Error: %s\n", "boom")

		assert.Equal(t, "status: 401\n", stdout.String())
		assert.Equal(t, "Logging in...\nError: boom\n", stderr.String())
	})

	t.Run("Quiet", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		o := newOutputHandler(true, &stdout, &stderr)

		fmt.Fprintln(o.Results(), "Login OK, continue at /ui")
		n, err := fmt.Fprintln(o.Diagnostics(), "Login failed: bad creds")
		require.NoError(t, err)
		assert.Positive(t, n)
		o.Error("Error: %s\n", "boom")

		assert.True(t, o.IsQuiet())
		assert.Equal(t, "Login OK, continue at /ui\n", stdout.String())
		assert.Empty(t, stderr.String())
	})
}

func TestLoggerArgs(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *config.Config)
		quiet   bool
		want    []string
		wantErr string
	}{
		{
			name:  "Quiet",
			quiet: true,
			want:  []string{"disable_file=true", "enable_console=false"},
		},
		{
			name:   "Stderr",
			mutate: func(c *config.Config) { c.Logging.Output = "stderr" },
			want:   []string{"disable_file=true", "enable_console=true", "console_target=stderr", "format=txt"},
		},
		{
			name:   "None",
			mutate: func(c *config.Config) { c.Logging.Output = "none" },
			want:   []string{"disable_file=true", "enable_console=false"},
		},
		{
			name:   "File",
			mutate: func(c *config.Config) { c.Logging.Output = "file" },
			want:   []string{"enable_console=false", "disable_file=false", "directory=./log", "name=hxlogin", "max_size_mb=10", "retention_period_hrs=168.0"},
		},
		{
			name:   "AllUsesConsoleTarget",
			mutate: func(c *config.Config) { c.Logging.Output = "all"; c.Logging.Console.Target = "split" },
			want:   []string{"enable_console=true", "disable_file=false", "console_target=split"},
		},
		{
			name:    "BadLevel",
			mutate:  func(c *config.Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			if tc.mutate != nil {
				tc.mutate(cfg)
			}

			args, err := loggerArgs(cfg, tc.quiet)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.quiet {
				assert.Equal(t, tc.want, args)
				return
			}
			assert.Contains(t, args, "level=4")
			assert.Subset(t, args, tc.want)
		})
	}
}
