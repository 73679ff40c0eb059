// FILE: src/cmd/hxlogin/commands/nonce.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/core"
)

// NonceCommand prints a fresh client nonce
type NonceCommand struct {
	output io.Writer
	errOut io.Writer
}

func (c *NonceCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("nonce", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var (
		length     = cmd.Int("l", core.NonceLength, "Nonce length in characters")
		lengthLong = cmd.Int("length", core.NonceLength, "Nonce length in characters")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	n := coalesceInt(*length, *lengthLong, core.NonceLength)
	if n < 1 || n > 1024 {
		return fmt.Errorf("nonce length must be between 1 and 1024: %d", n)
	}

	nonce, err := codec.Nonce(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.output, nonce)
	return nil
}

func (c *NonceCommand) Description() string {
	return "Generate a client nonce"
}

func (c *NonceCommand) Help() string {
	return `Nonce Command - Generate a random client nonce

Usage:
  hxlogin nonce [-l <length>]

Options:
  -l, --length <n>    Characters to generate (default: 24)

Characters are drawn from the base64 alphabet using crypto/rand.
`
}
