// FILE: src/cmd/hxlogin/main.go
package main

import (
	"errors"
	"os"
	"time"

	"hxlogin/src/cmd/hxlogin/commands"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	globals, rest, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		FatalError(1, "Error: %v\n", err)
	}

	InitOutputHandler(globals.Quiet)

	if globals.ConfigFile != "" {
		os.Setenv("HXLOGIN_CONFIG_FILE", globals.ConfigFile)
	}

	router := commands.NewCommandRouter(bootstrap, output.Results(), output.Diagnostics())
	args := append([]string{os.Args[0]}, rest...)

	handled, err := router.Route(args)
	if err != nil {
		if errors.Is(err, commands.ErrLoginFailed) {
			os.Exit(2)
		}
		FatalError(1, "Error: %v\n", err)
	}
	if !handled {
		help, _ := router.GetCommand("help")
		_ = help.Execute(nil)
		if len(rest) > 0 {
			os.Exit(1)
		}
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
