// FILE: src/internal/transport/http_test.go
package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"hxlogin/src/internal/config"
	"hxlogin/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// newTestClient wires an HTTPClient to an in-memory fasthttp server
func newTestClient(t *testing.T, timeout time.Duration, handler fasthttp.RequestHandler) *HTTPClient {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go server.Serve(ln)
	t.Cleanup(func() { ln.Close() })

	cfg := &config.TransportConfig{
		RequestTimeoutMS: timeout.Milliseconds(),
		MaxConnsPerHost:  4,
	}
	c, err := New("http://auth.test/user/auth", cfg, log.NewLogger())
	require.NoError(t, err)
	c.client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New("http://localhost/auth", nil, log.NewLogger())
	assert.Error(t, err)

	_, err = New("", &config.TransportConfig{RequestTimeoutMS: 1000, MaxConnsPerHost: 1}, log.NewLogger())
	assert.Error(t, err)

	c, err := New("http://localhost/auth", &config.TransportConfig{RequestTimeoutMS: 1000, MaxConnsPerHost: 1}, log.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, version.UserAgent(), c.userAgent)
	assert.Equal(t, "http://localhost/auth", c.URI())
}

func TestHTTPClient_Get(t *testing.T) {
	var gotAuth, gotUA, gotMethod, gotPath string
	c := newTestClient(t, time.Second, func(ctx *fasthttp.RequestCtx) {
		gotAuth = string(ctx.Request.Header.Peek("Authorization"))
		gotUA = string(ctx.Request.Header.UserAgent())
		gotMethod = string(ctx.Method())
		gotPath = string(ctx.Path())

		ctx.Response.Header.Add("WWW-Authenticate", `SCRAM hash="SHA-256"`)
		ctx.Response.Header.Add("WWW-Authenticate", `Plaintext realm="x"`)
		ctx.Response.Header.Set("x-hx-login-err", "Account locked")
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	})

	resp, err := c.Get(context.Background(), map[string]string{
		"Authorization": "HELLO username=dXNlcg",
	})
	require.NoError(t, err)

	assert.Equal(t, "HELLO username=dXNlcg", gotAuth)
	assert.Equal(t, version.UserAgent(), gotUA)
	assert.Equal(t, "GET", gotMethod)
	assert.Equal(t, "/user/auth", gotPath)

	assert.Equal(t, fasthttp.StatusUnauthorized, resp.StatusCode)

	www, ok := resp.Header("www-authenticate")
	assert.True(t, ok)
	assert.Equal(t, `SCRAM hash="SHA-256", Plaintext realm="x"`, www)

	reason, ok := resp.Header("X-HX-LOGIN-ERR")
	assert.True(t, ok)
	assert.Equal(t, "Account locked", reason)

	_, ok = resp.Header("Authentication-Info")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, uint64(1), stats["total_requests"])
	assert.Equal(t, uint64(0), stats["failed_requests"])
	assert.Equal(t, int64(fasthttp.StatusUnauthorized), stats["last_status"])
}

func TestHTTPClient_Timeout(t *testing.T) {
	c := newTestClient(t, 50*time.Millisecond, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
	})

	resp, err := c.Get(context.Background(), nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, uint64(1), c.GetStats()["timeouts"])
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, 5*time.Second, func(ctx *fasthttp.RequestCtx) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	resp, err := c.Get(ctx, nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPClient_ContextAlreadyDone(t *testing.T) {
	c := newTestClient(t, time.Second, func(ctx *fasthttp.RequestCtx) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(0), c.GetStats()["total_requests"])
}

func TestResponse_Header(t *testing.T) {
	r := NewResponse(200, map[string]string{"Authentication-Info": `SCRAM data="abc"`})
	v, ok := r.Header("authentication-info")
	assert.True(t, ok)
	assert.Equal(t, `SCRAM data="abc"`, v)

	var nilResp *Response
	_, ok = nilResp.Header("anything")
	assert.False(t, ok)
}
