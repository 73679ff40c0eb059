// FILE: src/cmd/hxlogin/flags.go
package main

import (
	"fmt"
	"strings"
)

// globalFlags are accepted before the command name
type globalFlags struct {
	ConfigFile string
	Quiet      bool
}

// parseGlobalFlags consumes leading global options and returns the rest
func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var g globalFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			g.Quiet = true
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return g, nil, fmt.Errorf("%s requires a path", arg)
			}
			i++
			g.ConfigFile = args[i]
		case strings.HasPrefix(arg, "--config="):
			g.ConfigFile = strings.TrimPrefix(arg, "--config=")
		default:
			return g, args[i:], nil
		}
	}
	return g, nil, nil
}
