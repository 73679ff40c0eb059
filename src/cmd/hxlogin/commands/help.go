// FILE: src/cmd/hxlogin/commands/help.go
package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const generalHelpTemplate = `hxlogin: HTTP login negotiation client (HELLO, SCRAM, plaintext).

Usage:
  hxlogin [global options] <command> [options] [-- config overrides]

Commands:
%s

Global Options:
  -c, --config <path>      Path to configuration file (default: ~/.config/hxlogin.toml)
  -q, --quiet              Suppress all console output except results
  -h, --help               Display this help message and exit

For command-specific help:
  hxlogin help <command>
  hxlogin <command> --help

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - Overrides after "--", e.g. --auth.attempt_timeout_ms=5000
  - Environment variables with the HXLOGIN_ prefix, e.g. HXLOGIN_AUTH_AUTH_URI
  - TOML configuration file

Examples:
  # Log in, prompting for the password
  hxlogin login -u alice --uri https://host/user/auth

  # Show what a server offers
  hxlogin probe --uri https://host/user/auth
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
	output io.Writer
}

// Execute displays the appropriate help message based on the provided arguments.
func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.output, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.output, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  hxlogin help              Show general help
  hxlogin help <command>    Show help for a specific command
`
}

// formatCommandList creates a formatted and aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
