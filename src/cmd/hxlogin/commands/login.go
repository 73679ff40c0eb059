// FILE: src/cmd/hxlogin/commands/login.go
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hxlogin/src/internal/auth"
	"hxlogin/src/internal/transport"

	"golang.org/x/term"
)

// ErrLoginFailed is returned after the failure reason has been printed
var ErrLoginFailed = errors.New("login failed")

// LoginCommand runs one login attempt against the configured endpoint
type LoginCommand struct {
	bootstrap    Bootstrap
	output       io.Writer
	errOut       io.Writer
	readPassword func(prompt string) (string, error)
}

func (c *LoginCommand) Execute(args []string) error {
	flagArgs, overrides := splitOverrides(args)

	cmd := flag.NewFlagSet("login", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var (
		username     = cmd.String("u", "", "Username")
		usernameLong = cmd.String("user", "", "Username")
		password     = cmd.String("p", "", "Password (will prompt if not provided)")
		passwordLong = cmd.String("password", "", "Password (will prompt if not provided)")
		uri          = cmd.String("uri", "", "Auth endpoint (overrides auth.auth_uri)")
		saveConfig   = cmd.String("save-config", "", "Write the effective config to this path after the attempt")
	)

	if err := cmd.Parse(flagArgs); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	finalUsername := coalesceString(*username, *usernameLong)
	finalPassword := coalesceString(*password, *passwordLong)
	if finalUsername == "" {
		return fmt.Errorf("username required (-u)")
	}

	if *uri != "" {
		overrides = append(overrides, "--auth.auth_uri="+*uri)
	}

	rt, err := c.bootstrap(overrides)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	if finalPassword == "" {
		if finalPassword, err = c.readPassword(fmt.Sprintf("Password for %s: ", finalUsername)); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	httpClient, err := transport.New(cfg.Auth.AuthURI, &cfg.Transport, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	client, err := auth.NewClient(&cfg.Auth, httpClient, auth.Callbacks{
		OnSuccess: func() {
			fmt.Fprintf(c.output, "%s OK, continue at %s\n", cfg.Auth.Locale.Login, cfg.Auth.RedirectURI)
		},
		OnFail: func(reason string) {
			fmt.Fprintf(c.errOut, "%s failed: %s\n", cfg.Auth.Locale.Login, reason)
		},
	}, rt.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.errOut, "%s...\n", cfg.Auth.Locale.LoggingIn)
	res := client.Authenticate(ctx, finalUsername, finalPassword)

	rt.Logger.Debug("msg", "Login command finished",
		"component", "cli",
		"attempt_id", res.AttemptID,
		"state", res.State.String(),
		"client", client.GetStats(),
		"transport", httpClient.GetStats())

	if *saveConfig != "" {
		if err := cfg.SaveToFile(*saveConfig); err != nil {
			return err
		}
		fmt.Fprintf(c.errOut, "Config saved to %s\n", *saveConfig)
	}

	if !res.OK() {
		return ErrLoginFailed
	}
	return nil
}

func (c *LoginCommand) Description() string {
	return "Log in to an HTTP auth endpoint"
}

func (c *LoginCommand) Help() string {
	return `Login Command - Negotiate and run a login exchange

Usage:
  hxlogin login -u <user> [-p <password>] [--uri <auth uri>] [-- overrides]

Options:
  -u, --user <name>          Username
  -p, --password <pass>      Password (prompted when omitted)
      --uri <url>            Auth endpoint, overrides auth.auth_uri
      --save-config <path>   Write the effective configuration as TOML

The client sends a HELLO probe, then runs the SCRAM or plaintext exchange
the server asks for. Exit status is non-zero when the login fails.

Examples:
  hxlogin login -u alice --uri https://host/user/auth
  hxlogin login -u alice -- --auth.attempt_timeout_ms=5000 --logging.level=debug
`
}

func readTerminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
