// FILE: src/cmd/hxlogin/commands/router.go
package commands

import (
	"fmt"
	"io"

	"hxlogin/src/internal/config"

	"github.com/lixenwraith/log"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// Runtime is the configured environment the network commands run in.
type Runtime struct {
	Config *config.Config
	Logger *log.Logger
	// Close flushes the logger
	Close func()
}

// Bootstrap loads configuration with the given lconfig overrides and
// starts logging.
type Bootstrap func(overrides []string) (*Runtime, error)

// CommandRouter handles the routing of CLI arguments to the appropriate subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
}

// NewCommandRouter creates and initializes the command router with all available commands.
// Results go to out, progress and failure lines to errOut.
func NewCommandRouter(bootstrap Bootstrap, out, errOut io.Writer) *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
	}

	router.commands["login"] = &LoginCommand{bootstrap: bootstrap, output: out, errOut: errOut, readPassword: readTerminalPassword}
	router.commands["probe"] = &ProbeCommand{bootstrap: bootstrap, output: out, errOut: errOut}
	router.commands["nonce"] = &NonceCommand{output: out, errOut: errOut}
	router.commands["version"] = &VersionCommand{output: out}
	router.commands["help"] = &HelpCommand{router: router, output: out}

	return router
}

// Route checks for and executes a subcommand based on the provided CLI arguments.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	// Help flag before any "--" shows command help
	for _, arg := range args[1:] {
		if arg == "--" {
			break
		}
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.commands["help"].(*HelpCommand).output, handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		if cmdName != "" && cmdName[0] == '-' {
			return false, nil
		}
		return false, fmt.Errorf("unknown command: %s\n\nRun 'hxlogin help' for usage", cmdName)
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}

// coalesceString returns the first non-empty string from a list of arguments.
func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// coalesceInt returns the first non-default integer from a list of arguments.
func coalesceInt(primary, secondary, defaultVal int) int {
	if primary != defaultVal {
		return primary
	}
	if secondary != defaultVal {
		return secondary
	}
	return defaultVal
}

// splitOverrides separates command flags from lconfig overrides after "--"
func splitOverrides(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}
