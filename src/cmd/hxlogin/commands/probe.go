// FILE: src/cmd/hxlogin/commands/probe.go
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"hxlogin/src/internal/challenge"
	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/core"
	"hxlogin/src/internal/transport"
)

// ProbeCommand sends a HELLO and prints what the server offers
type ProbeCommand struct {
	bootstrap Bootstrap
	output    io.Writer
	errOut    io.Writer
}

func (c *ProbeCommand) Execute(args []string) error {
	flagArgs, overrides := splitOverrides(args)

	cmd := flag.NewFlagSet("probe", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var (
		username     = cmd.String("u", "", "Username to announce")
		usernameLong = cmd.String("user", "", "Username to announce")
		uri          = cmd.String("uri", "", "Auth endpoint (overrides auth.auth_uri)")
	)

	if err := cmd.Parse(flagArgs); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	finalUsername := coalesceString(*username, *usernameLong, "anonymous")
	if *uri != "" {
		overrides = append(overrides, "--auth.auth_uri="+*uri)
	}

	rt, err := c.bootstrap(overrides)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	httpClient, err := transport.New(cfg.Auth.AuthURI, &cfg.Transport, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Auth.AttemptTimeoutMS)*time.Millisecond)
	defer cancel()

	resp, err := httpClient.Get(ctx, map[string]string{
		core.HeaderAuthorization: core.HelloScheme + " username=" + codec.EncodeBase64URL(codec.UTF8(finalUsername)),
	})
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	return c.report(resp)
}

func (c *ProbeCommand) report(resp *transport.Response) error {
	fmt.Fprintf(c.output, "status: %d\n", resp.StatusCode)

	header, ok := resp.Header(core.HeaderWWWAuthenticate)
	if !ok {
		if reason, ok := resp.Header(core.HeaderLoginErr); ok {
			fmt.Fprintf(c.output, "reason: %s\n", reason)
		}
		fmt.Fprintln(c.output, "no challenge offered")
		return nil
	}

	challenges, err := challenge.ParseAll(header)
	if err != nil {
		return fmt.Errorf("unparsable %s header %q: %w", core.HeaderWWWAuthenticate, header, err)
	}
	for i, ch := range challenges {
		fmt.Fprintf(c.output, "challenge %d: %s\n", i+1, ch.Scheme)
		for _, p := range ch.Params() {
			fmt.Fprintf(c.output, "  %s = %s\n", p.Name, p.Value)
		}
	}
	return nil
}

func (c *ProbeCommand) Description() string {
	return "Show the auth schemes a server offers"
}

func (c *ProbeCommand) Help() string {
	return `Probe Command - Send a HELLO and list the returned challenges

Usage:
  hxlogin probe [-u <user>] [--uri <auth uri>] [-- overrides]

Options:
  -u, --user <name>   Username announced in the HELLO (default: anonymous)
      --uri <url>     Auth endpoint, overrides auth.auth_uri

No credentials are sent.
`
}
