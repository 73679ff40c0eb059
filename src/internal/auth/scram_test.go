// FILE: src/internal/auth/scram_test.go
package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"hxlogin/src/internal/challenge"
	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/core"
	"hxlogin/src/internal/hashing"
	"hxlogin/src/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdg-go/scram"
)

// RFC 7677 section 3
const (
	rfcClientNonce = "rOprNGfwEbeRWgbNEkqO"
	rfcServerFirst = "r=rOprNGfwEbeRWgbNEkqO%hvYDpWUa2RaTCAfuxFIlj)hNlF$k0,s=W22ZaJ0SNY7soEsUEjb6gQ==,i=4096"
	rfcClientFinal = "c=biws,r=rOprNGfwEbeRWgbNEkqO%hvYDpWUa2RaTCAfuxFIlj)hNlF$k0,p=dHzbZapWIk4jUhN+Ute9ytag9zjfMHgsqmmiz7AndVQ="
	rfcServerFinal = "v=6rriTRBi23WpRR/wtup+mMhUZUn/dB5nLTJRsjl95G4="
)

func rfcSteps(final step) []step {
	return []step{
		challengeStep(`SCRAM hash=SHA-256, handshakeToken=hello-tok`),
		challengeStep(`scram data="` + codec.EncodeBase64URL([]byte(rfcServerFirst)) + `", handshakeToken=round-tok`),
		final,
	}
}

func authInfo(serverFinal string) map[string]string {
	return map[string]string{core.HeaderAuthInfo: "data=" + codec.EncodeBase64URL([]byte(serverFinal))}
}

func TestScram_RFC7677Vector(t *testing.T) {
	c, ft, rec := newTestClient(t, nil, rfcSteps(respond(200, authInfo(rfcServerFinal)))...)
	c.nonce = func() (string, error) { return rfcClientNonce, nil }

	res := c.Authenticate(context.Background(), "user", "pencil")
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, "scram", res.Scheme)
	assert.Equal(t, 1, rec.successes)

	sent := ft.sent()
	require.Len(t, sent, 3)

	assert.Equal(t, "HELLO username=dXNlcg", sent[0])

	assert.True(t, strings.HasPrefix(sent[1], "scram data="), sent[1])
	assert.True(t, strings.HasSuffix(sent[1], ", handshakeToken=hello-tok"), sent[1])
	assert.Equal(t, "n,,n=user,r="+rfcClientNonce, decodeData(t, sent[1]))

	assert.True(t, strings.HasSuffix(sent[2], ", handshakeToken=round-tok"), sent[2])
	assert.Equal(t, rfcClientFinal, decodeData(t, sent[2]))
}

func TestScram_ServerSignature(t *testing.T) {
	badFinal := "v=" + codec.EncodeBase64(make([]byte, 32))

	testCases := []struct {
		name     string
		final    step
		verify   bool
		wantKind Kind
	}{
		{name: "NoAuthInfo", final: respond(200, nil), verify: true, wantKind: KindNone},
		{name: "Mismatch", final: respond(200, authInfo(badFinal)), verify: true, wantKind: KindProtocolIntegrity},
		{name: "MismatchNotVerified", final: respond(200, authInfo(badFinal)), verify: false, wantKind: KindNone},
		{name: "ServerFinalError", final: respond(200, authInfo("e=other-error")), verify: true, wantKind: KindProtocolIntegrity},
		{name: "MalformedAuthInfo", final: respond(200, map[string]string{core.HeaderAuthInfo: `data="abc`}), verify: true, wantKind: KindParse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testAuthConfig()
			cfg.VerifyServerSignature = tc.verify
			c, _, _ := newTestClient(t, cfg, rfcSteps(tc.final)...)
			c.nonce = func() (string, error) { return rfcClientNonce, nil }

			res := c.Authenticate(context.Background(), "user", "pencil")
			assert.Equal(t, tc.wantKind, res.Kind, "err: %v", res.Err)
			if tc.wantKind != KindNone {
				assert.Equal(t, "check logs", res.Reason)
			}
		})
	}
}

func TestScram_NonceNotExtended(t *testing.T) {
	forged := "r=someoneElsesNonce123,s=W22ZaJ0SNY7soEsUEjb6gQ==,i=4096"
	c, ft, rec := newTestClient(t, nil,
		challengeStep(`SCRAM hash=SHA-256`),
		challengeStep(`scram data=`+codec.EncodeBase64URL([]byte(forged))),
	)
	c.nonce = func() (string, error) { return rfcClientNonce, nil }

	res := c.Authenticate(context.Background(), "user", "pencil")
	assert.Equal(t, KindProtocolIntegrity, res.Kind)
	assert.Len(t, ft.sent(), 2, "client-final must not be sent")
	assert.Equal(t, []string{"check logs"}, rec.failures)
}

func TestScram_ServerFirstErrors(t *testing.T) {
	testCases := []struct {
		name       string
		data       string
		wantKind   Kind
		wantReason string
	}{
		{name: "MissingIterations", data: "r=" + rfcClientNonce + "xyz,s=QUJD", wantKind: KindParse, wantReason: "check logs"},
		{name: "NonNumericIterations", data: "r=" + rfcClientNonce + "xyz,s=QUJD,i=many", wantKind: KindParse, wantReason: "check logs"},
		{name: "ZeroIterations", data: "r=" + rfcClientNonce + "xyz,s=QUJD,i=0", wantKind: KindParse, wantReason: "check logs"},
		{name: "MissingSalt", data: "r=" + rfcClientNonce + "xyz,i=4096", wantKind: KindParse, wantReason: "check logs"},
		{name: "MissingNonce", data: "s=QUJD,i=4096", wantKind: KindParse, wantReason: "check logs"},
		{name: "ServerError", data: "e=unknown-user", wantKind: KindTransport, wantReason: "unknown-user"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, ft, _ := newTestClient(t, nil,
				challengeStep(`SCRAM hash=SHA-256`),
				challengeStep(`scram data=`+codec.EncodeBase64URL([]byte(tc.data))),
			)
			c.nonce = func() (string, error) { return rfcClientNonce, nil }

			res := c.Authenticate(context.Background(), "user", "pencil")
			assert.Equal(t, tc.wantKind, res.Kind, "err: %v", res.Err)
			assert.Equal(t, tc.wantReason, res.Reason)
			assert.Len(t, ft.sent(), 2)
		})
	}
}

func TestScram_RoundOneUnexpectedStatus(t *testing.T) {
	c, ft, _ := newTestClient(t, nil,
		challengeStep(`SCRAM hash=SHA-256`),
		respond(403, map[string]string{core.HeaderLoginErr: "User disabled"}),
	)

	res := c.Authenticate(context.Background(), "user", "pencil")
	assert.Equal(t, KindTransport, res.Kind)
	assert.Equal(t, "User disabled", res.Reason)
	assert.Len(t, ft.sent(), 2)
}

func TestScram_SHA1KeyLength(t *testing.T) {
	steps := rfcSteps(respond(200, nil))
	steps[0] = challengeStep(`SCRAM hash=SHA-1`)
	c, ft, _ := newTestClient(t, nil, steps...)
	c.nonce = func() (string, error) { return rfcClientNonce, nil }

	res := c.Authenticate(context.Background(), "user", "pencil")
	require.True(t, res.OK(), "err: %v", res.Err)

	final := decodeData(t, ft.sent()[2])
	_, proof, ok := strings.Cut(final, ",p=")
	require.True(t, ok)
	raw, err := codec.DecodeBase64(proof)
	require.NoError(t, err)
	assert.Len(t, raw, hashing.SHA1.KeyLen())
}

func TestScramSession_ClientFinal(t *testing.T) {
	s := newScramSession(hashing.SHA256, "user", "pencil", rfcClientNonce)
	defer s.destroy()

	ch, err := challenge.ParseFirst(`scram data=` + codec.EncodeBase64URL([]byte(rfcServerFirst)))
	require.NoError(t, err)
	sf, err := parseServerFirst(ch)
	require.NoError(t, err)
	assert.Equal(t, 4096, sf.Iterations)
	assert.Equal(t, rfcServerFirst, sf.Raw)

	final, authMessage, secrets, err := s.clientFinal(sf)
	require.NoError(t, err)
	assert.Equal(t, rfcClientFinal, final)
	assert.Equal(t, "n=user,r="+rfcClientNonce+","+rfcServerFirst+",c=biws,r="+sf.Nonce, authMessage)

	secrets.zero()
	assert.Equal(t, make([]byte, 32), secrets.saltedPassword)
	assert.Equal(t, make([]byte, 32), secrets.proof)

	s.destroy()
	assert.Equal(t, make([]byte, len("pencil")), s.password)
}

// xdgServerSteps stands up a SCRAM-SHA-256 server from github.com/xdg-go/scram
// behind the HTTP challenge framing.
func xdgServerSteps(t *testing.T, username, password string) []step {
	t.Helper()

	credClient, err := scram.SHA256.NewClient(username, password, "")
	require.NoError(t, err)
	creds := credClient.GetStoredCredentials(scram.KeyFactors{Salt: "hxlogin-test-salt", Iters: 4096})

	server, err := scram.SHA256.NewServer(func(name string) (scram.StoredCredentials, error) {
		if name != username {
			return scram.StoredCredentials{}, fmt.Errorf("unknown user %q", name)
		}
		return creds, nil
	})
	require.NoError(t, err)
	conv := server.NewConversation()

	converse := func(headers map[string]string) (string, error) {
		ch, err := challenge.ParseFirst(headers[core.HeaderAuthorization])
		if err != nil {
			return "", err
		}
		data, _ := ch.Param("data")
		raw, err := codec.DecodeBase64URL(data)
		if err != nil {
			return "", err
		}
		return conv.Step(string(raw))
	}

	return []step{
		challengeStep(`SCRAM hash="SHA-256", handshakeToken=t1`),
		func(_ context.Context, headers map[string]string) (*transport.Response, error) {
			if headers[core.HeaderAuthorization] == "" || !strings.HasSuffix(headers[core.HeaderAuthorization], "handshakeToken=t1") {
				return transport.NewResponse(400, nil), nil
			}
			out, err := converse(headers)
			if err != nil {
				return transport.NewResponse(403, map[string]string{core.HeaderLoginErr: err.Error()}), nil
			}
			return transport.NewResponse(401, map[string]string{
				core.HeaderWWWAuthenticate: "scram data=" + codec.EncodeBase64URL([]byte(out)) + ", handshakeToken=t2",
			}), nil
		},
		func(_ context.Context, headers map[string]string) (*transport.Response, error) {
			if !strings.HasSuffix(headers[core.HeaderAuthorization], "handshakeToken=t2") {
				return transport.NewResponse(400, nil), nil
			}
			out, err := converse(headers)
			if err != nil || !conv.Valid() {
				return transport.NewResponse(403, map[string]string{core.HeaderLoginErr: "Invalid credentials"}), nil
			}
			return transport.NewResponse(200, authInfo(out)), nil
		},
	}
}

func TestScram_XDGServerInterop(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, ft, rec := newTestClient(t, nil, xdgServerSteps(t, "alice", "correct horse")...)

		res := c.Authenticate(context.Background(), "alice", "correct horse")
		require.True(t, res.OK(), "err: %v", res.Err)
		assert.Len(t, ft.sent(), 3)
		assert.Equal(t, 1, rec.successes)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		c, ft, rec := newTestClient(t, nil, xdgServerSteps(t, "alice", "correct horse")...)

		res := c.Authenticate(context.Background(), "alice", "battery staple")
		assert.Equal(t, StateFailed, res.State)
		assert.Equal(t, KindTransport, res.Kind)
		assert.Equal(t, "Invalid credentials", res.Reason)
		assert.Len(t, ft.sent(), 3)
		assert.Equal(t, []string{"Invalid credentials"}, rec.failures)
	})
}
