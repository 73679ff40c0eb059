// FILE: src/internal/transport/http.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"hxlogin/src/internal/config"
	ltls "hxlogin/src/internal/tls"
	"hxlogin/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// ErrTimeout is returned when a request exceeds its deadline
var ErrTimeout = errors.New("request timed out")

// Response is a detached copy of the parts of an HTTP response the login
// exchanges look at. It stays valid after the underlying fasthttp objects
// are released.
type Response struct {
	StatusCode int
	header     map[string]string
}

// NewResponse builds a Response, header names are matched case-insensitively.
func NewResponse(status int, headers map[string]string) *Response {
	r := &Response{StatusCode: status, header: make(map[string]string, len(headers))}
	for k, v := range headers {
		r.add(k, v)
	}
	return r
}

// Header returns the value for name. Repeated headers are joined with ", ".
func (r *Response) Header(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.header[strings.ToLower(name)]
	return v, ok
}

func (r *Response) add(name, value string) {
	key := strings.ToLower(name)
	if prev, ok := r.header[key]; ok {
		r.header[key] = prev + ", " + value
		return
	}
	r.header[key] = value
}

// HTTPClient sends GET requests to the auth endpoint
type HTTPClient struct {
	uri       string
	timeout   time.Duration
	userAgent string

	client     *fasthttp.Client
	tlsManager *ltls.ClientManager
	logger     *log.Logger

	startTime time.Time

	// Statistics
	totalRequests  atomic.Uint64
	failedRequests atomic.Uint64
	timeouts       atomic.Uint64
	lastStatus     atomic.Int64
	lastRequest    atomic.Value // time.Time
}

// New creates the client for uri. TLS settings apply only to https URIs.
func New(uri string, cfg *config.TransportConfig, logger *log.Logger) (*HTTPClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("transport config cannot be nil")
	}
	if uri == "" {
		return nil, fmt.Errorf("transport uri cannot be empty")
	}

	c := &HTTPClient{
		uri:       uri,
		timeout:   time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
		userAgent: cfg.UserAgent,
		logger:    logger,
		startTime: time.Now(),
	}
	if c.userAgent == "" {
		c.userAgent = version.UserAgent()
	}
	c.lastRequest.Store(time.Time{})

	c.client = &fasthttp.Client{
		Name:                c.userAgent,
		MaxConnsPerHost:     int(cfg.MaxConnsPerHost),
		MaxIdleConnDuration: 10 * time.Second,
		ReadTimeout:         c.timeout,
		WriteTimeout:        c.timeout,
	}

	if strings.HasPrefix(strings.ToLower(uri), "https://") && cfg.TLS != nil && cfg.TLS.Enabled {
		tlsManager, err := ltls.NewClientManager(cfg.TLS, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS client manager: %w", err)
		}
		c.tlsManager = tlsManager
		c.client.TLSConfig = tlsManager.GetConfig()
	}

	logger.Debug("msg", "HTTP transport created",
		"component", "transport",
		"uri", uri,
		"request_timeout", c.timeout,
		"tls", c.tlsManager != nil)
	return c, nil
}

// Get issues a GET with the given request headers. The request deadline is
// the earlier of the configured timeout and the context deadline. When ctx
// is canceled Get returns ctx.Err() without waiting for the server.
func (c *HTTPClient) Get(ctx context.Context, headers map[string]string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	c.totalRequests.Add(1)
	c.lastRequest.Store(time.Now())

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	req.SetRequestURI(c.uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.client.DoTimeout(req, resp, timeout)
	}()

	select {
	case err := <-done:
		defer release()
		if err != nil {
			c.failedRequests.Add(1)
			if errors.Is(err, fasthttp.ErrTimeout) {
				c.timeouts.Add(1)
				return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			c.logger.Warn("msg", "HTTP request failed",
				"component", "transport",
				"uri", c.uri,
				"error", err)
			return nil, fmt.Errorf("request failed: %w", err)
		}

		// Copy out before release
		out := &Response{StatusCode: resp.StatusCode(), header: make(map[string]string)}
		resp.Header.VisitAll(func(key, value []byte) {
			out.add(string(key), string(value))
		})
		c.lastStatus.Store(int64(out.StatusCode))
		return out, nil

	case <-ctx.Done():
		c.failedRequests.Add(1)
		// The request still owns req/resp until DoTimeout returns
		go func() {
			<-done
			release()
		}()
		return nil, ctx.Err()
	}
}

// URI returns the endpoint this client talks to
func (c *HTTPClient) URI() string {
	return c.uri
}

// GetStats returns the transport statistics
func (c *HTTPClient) GetStats() map[string]any {
	lastReq, _ := c.lastRequest.Load().(time.Time)

	var tlsStats map[string]any
	if c.tlsManager != nil {
		tlsStats = c.tlsManager.GetStats()
	}

	return map[string]any{
		"uri":             c.uri,
		"start_time":      c.startTime,
		"total_requests":  c.totalRequests.Load(),
		"failed_requests": c.failedRequests.Load(),
		"timeouts":        c.timeouts.Load(),
		"last_status":     c.lastStatus.Load(),
		"last_request":    lastReq,
		"tls":             tlsStats,
	}
}
