// FILE: src/cmd/hxlogin/commands/version.go
package commands

import (
	"fmt"
	"io"

	"hxlogin/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	output io.Writer
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.output, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show hxlogin version information

Usage:
  hxlogin version

Output includes the version tag, git commit and build time.
`
}
