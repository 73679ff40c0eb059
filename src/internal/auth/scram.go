// FILE: src/internal/auth/scram.go
package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hxlogin/src/internal/challenge"
	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/core"
	"hxlogin/src/internal/hashing"
	"hxlogin/src/internal/kdf"
	"hxlogin/src/internal/transport"
)

// scramSession is the client side of one SCRAM exchange. It lives for a
// single attempt and must never be logged.
type scramSession struct {
	spec            hashing.Spec
	username        string
	password        []byte
	clientNonce     string
	clientFirstBare string
}

func newScramSession(spec hashing.Spec, username, password, nonce string) *scramSession {
	return &scramSession{
		spec:            spec,
		username:        username,
		password:        codec.UTF8(password),
		clientNonce:     nonce,
		clientFirstBare: "n=" + string(codec.UTF8(username)) + ",r=" + nonce,
	}
}

func (s *scramSession) clientFirstMessage() string {
	return core.GS2Header + s.clientFirstBare
}

func (s *scramSession) destroy() {
	codec.Zero(s.password)
}

// serverFirst is the decoded server-first message
type serverFirst struct {
	Nonce      string
	Salt       []byte
	Iterations int
	// Server error attribute, set instead of the other fields
	Err string
	// Exact decoded text, part of the auth message
	Raw string
}

// derivedSecrets holds the per-attempt key material
type derivedSecrets struct {
	saltedPassword  []byte
	clientKey       []byte
	storedKey       []byte
	clientSignature []byte
	proof           []byte
}

func (d *derivedSecrets) zero() {
	if d == nil {
		return
	}
	for _, b := range [][]byte{d.saltedPassword, d.clientKey, d.storedKey, d.clientSignature, d.proof} {
		codec.Zero(b)
	}
}

// parseServerFirst decodes the data parameter of the round-1 challenge
func parseServerFirst(ch *challenge.Challenge) (*serverFirst, error) {
	data, ok := ch.Param("data")
	if !ok {
		return nil, fmt.Errorf("%w: server-first challenge has no data parameter", ErrParse)
	}
	raw, err := codec.DecodeBase64URL(data)
	if err != nil {
		return nil, fmt.Errorf("%w: server-first data: %w", ErrParse, err)
	}

	sf := &serverFirst{Raw: string(raw)}
	attrs := make(map[string]string)
	for _, tok := range strings.Split(sf.Raw, ",") {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		attrs[k] = v
	}

	if e, ok := attrs["e"]; ok {
		sf.Err = e
		return sf, nil
	}

	nonce, ok := attrs["r"]
	if !ok || nonce == "" {
		return nil, fmt.Errorf("%w: server-first missing nonce", ErrParse)
	}
	sf.Nonce = nonce

	salt, ok := attrs["s"]
	if !ok {
		return nil, fmt.Errorf("%w: server-first missing salt", ErrParse)
	}
	if sf.Salt, err = codec.DecodeBase64URL(salt); err != nil {
		return nil, fmt.Errorf("%w: server-first salt: %w", ErrParse, err)
	}

	iter, ok := attrs["i"]
	if !ok {
		return nil, fmt.Errorf("%w: server-first missing iteration count", ErrParse)
	}
	n, err := strconv.Atoi(iter)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: invalid iteration count %q", ErrParse, iter)
	}
	sf.Iterations = n

	return sf, nil
}

// clientFinal derives the proof for sf. The returned secrets must be zeroed
// by the caller.
func (s *scramSession) clientFinal(sf *serverFirst) (string, string, *derivedSecrets, error) {
	clientFinalWithoutProof := "c=" + codec.EncodeBase64([]byte(core.GS2Header)) + ",r=" + sf.Nonce
	authMessage := s.clientFirstBare + "," + sf.Raw + "," + clientFinalWithoutProof

	salted, err := kdf.PBKDF2SHA256(s.password, sf.Salt, sf.Iterations, s.spec.KeyLen())
	if err != nil {
		return "", "", nil, err
	}

	d := &derivedSecrets{saltedPassword: salted}
	d.clientKey = s.spec.HMAC(d.saltedPassword, []byte(core.ClientKeyLabel))
	d.storedKey = s.spec.Digest(d.clientKey)
	d.clientSignature = s.spec.HMAC(d.storedKey, []byte(authMessage))
	if d.proof, err = codec.XOR(d.clientKey, d.clientSignature); err != nil {
		d.zero()
		return "", "", nil, err
	}

	return clientFinalWithoutProof + ",p=" + codec.EncodeBase64(d.proof), authMessage, d, nil
}

// verifyServerFinal checks the v= attribute carried by Authentication-Info
func (s *scramSession) verifyServerFinal(d *derivedSecrets, authMessage string, info *challenge.Challenge) error {
	data, ok := info.Param("data")
	if !ok {
		return nil
	}
	raw, err := codec.DecodeBase64URL(data)
	if err != nil {
		return fmt.Errorf("%w: server-final data: %w", ErrParse, err)
	}

	var sig string
	for _, tok := range strings.Split(string(raw), ",") {
		k, v, _ := strings.Cut(tok, "=")
		switch k {
		case "e":
			return fmt.Errorf("%w: server-final error %q", ErrProtocolIntegrity, v)
		case "v":
			sig = v
		}
	}
	if sig == "" {
		return nil
	}

	received, err := codec.DecodeBase64URL(sig)
	if err != nil {
		return fmt.Errorf("%w: server signature encoding: %w", ErrParse, err)
	}

	serverKey := s.spec.HMAC(d.saltedPassword, []byte(core.ServerKeyLabel))
	defer codec.Zero(serverKey)
	expected := s.spec.HMAC(serverKey, []byte(authMessage))
	if !hashing.Equal(expected, received) {
		return fmt.Errorf("%w: server signature mismatch", ErrProtocolIntegrity)
	}
	return nil
}

// scram runs the two-round exchange
func (c *Client) scram(ctx context.Context, a *Attempt, hello *challenge.Challenge, username, password string) error {
	hashName, _ := hello.Param("hash")
	spec, err := hashing.Lookup(hashName)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedHash, hashName)
	}

	nonce, err := c.nonce()
	if err != nil {
		return fmt.Errorf("failed to generate client nonce: %w", err)
	}

	s := newScramSession(spec, username, password, nonce)
	defer s.destroy()

	c.logger.Debug("msg", "Starting SCRAM exchange",
		"component", "auth",
		"attempt_id", a.id,
		"hash", spec.Name)

	// Round 1: client-first
	header := authHeader(hello.Scheme, "data", codec.EncodeBase64URL([]byte(s.clientFirstMessage())), hello)
	resp, err := c.transport.Get(ctx, map[string]string{core.HeaderAuthorization: header})
	if err != nil {
		return wrapTransport(err)
	}
	if resp.StatusCode != 401 {
		return rejected(resp)
	}

	first, err := challengeFrom(resp)
	if err != nil {
		return err
	}
	sf, err := parseServerFirst(first)
	if err != nil {
		return err
	}
	if sf.Err != "" {
		return &RejectedError{StatusCode: resp.StatusCode, Reason: sf.Err}
	}
	if !strings.HasPrefix(sf.Nonce, s.clientNonce) {
		return fmt.Errorf("%w: server nonce does not extend client nonce", ErrProtocolIntegrity)
	}

	c.logger.Debug("msg", "Server-first received",
		"component", "auth",
		"attempt_id", a.id,
		"iterations", sf.Iterations,
		"salt_len", len(sf.Salt))

	final, authMessage, secrets, err := s.clientFinal(sf)
	if err != nil {
		return err
	}
	defer secrets.zero()

	// Round 2: client-final, echoing the server-first token
	header = authHeader(hello.Scheme, "data", codec.EncodeBase64URL([]byte(final)), first)
	resp, err = c.transport.Get(ctx, map[string]string{core.HeaderAuthorization: header})
	if err != nil {
		return wrapTransport(err)
	}
	if resp.StatusCode != 200 {
		return rejected(resp)
	}

	return c.checkServerFinal(s, secrets, authMessage, resp)
}

func (c *Client) checkServerFinal(s *scramSession, d *derivedSecrets, authMessage string, resp *transport.Response) error {
	if !c.config.VerifyServerSignature {
		return nil
	}
	value, ok := resp.Header(core.HeaderAuthInfo)
	if !ok {
		return nil
	}
	info, err := challenge.ParseInfo(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return s.verifyServerFinal(d, authMessage, info)
}
