// FILE: src/internal/auth/plaintext.go
package auth

import (
	"context"

	"hxlogin/src/internal/challenge"
	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/core"
)

// plaintext submits both credentials in a single round
func (c *Client) plaintext(ctx context.Context, a *Attempt, hello *challenge.Challenge, username, password string) error {
	header := hello.Scheme +
		" username=" + codec.EncodeBase64URL(codec.UTF8(username)) +
		", password=" + codec.EncodeBase64URL(codec.UTF8(password))

	resp, err := c.transport.Get(ctx, map[string]string{core.HeaderAuthorization: header})
	if err != nil {
		return wrapTransport(err)
	}
	if resp.StatusCode != 200 {
		return rejected(resp)
	}
	return nil
}
