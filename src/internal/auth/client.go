// FILE: src/internal/auth/client.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hxlogin/src/internal/challenge"
	"hxlogin/src/internal/codec"
	"hxlogin/src/internal/config"
	"hxlogin/src/internal/core"
	"hxlogin/src/internal/transport"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Transport sends one GET to the auth endpoint
type Transport interface {
	Get(ctx context.Context, headers map[string]string) (*transport.Response, error)
}

// Callbacks notify the host of the outcome. Exactly one is called per attempt.
type Callbacks struct {
	OnSuccess func()
	OnFail    func(reason string)
}

// Client negotiates and runs login exchanges against a single endpoint
type Client struct {
	config    *config.AuthConfig
	transport Transport
	callbacks Callbacks
	logger    *log.Logger
	limiter   *rate.Limiter

	// Overridden in tests to pin the client nonce
	nonce func() (string, error)

	mu      sync.Mutex
	current *Attempt

	// Statistics
	totalAttempts  atomic.Uint64
	successes      atomic.Uint64
	failures       atomic.Uint64
	rejectedStarts atomic.Uint64
}

// NewClient creates a login client
func NewClient(cfg *config.AuthConfig, t Transport, cb Callbacks, logger *log.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth config cannot be nil")
	}
	if t == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}

	c := &Client{
		config:    cfg,
		transport: t,
		callbacks: cb,
		logger:    logger,
		nonce: func() (string, error) {
			return codec.Nonce(core.NonceLength)
		},
	}

	if cfg.MaxAttemptsPerMinute > 0 {
		burst := int(cfg.AttemptBurst)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.MaxAttemptsPerMinute)), burst)
	}

	logger.Debug("msg", "Login client initialized",
		"component", "auth",
		"attempt_timeout_ms", cfg.AttemptTimeoutMS,
		"throttled", c.limiter != nil)
	return c, nil
}

// Login starts an attempt in the background. Only one attempt may be
// outstanding per Client.
func (c *Client) Login(ctx context.Context, username, password string) (*Attempt, error) {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		c.rejectedStarts.Add(1)
		return nil, ErrAttemptInProgress
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.mu.Unlock()
		c.rejectedStarts.Add(1)
		c.logger.Warn("msg", "Login attempt throttled",
			"component", "auth",
			"max_attempts_per_minute", c.config.MaxAttemptsPerMinute)
		return nil, ErrRateLimited
	}

	attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(c.config.AttemptTimeoutMS)*time.Millisecond)
	a := newAttempt(uuid.NewString(), cancel)
	c.current = a
	c.mu.Unlock()

	c.totalAttempts.Add(1)
	go c.run(attemptCtx, a, username, password)
	return a, nil
}

// Authenticate runs one attempt to completion
func (c *Client) Authenticate(ctx context.Context, username, password string) Result {
	a, err := c.Login(ctx, username, password)
	if err != nil {
		return Result{State: StateFailed, Kind: KindOf(err), Err: err, Reason: err.Error()}
	}
	<-a.Done()
	return a.Result()
}

// InProgress reports whether an attempt is outstanding
func (c *Client) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// GetStats returns attempt counters
func (c *Client) GetStats() map[string]any {
	return map[string]any{
		"total_attempts":  c.totalAttempts.Load(),
		"successes":       c.successes.Load(),
		"failures":        c.failures.Load(),
		"rejected_starts": c.rejectedStarts.Load(),
		"in_progress":     c.InProgress(),
	}
}

func (c *Client) run(ctx context.Context, a *Attempt, username, password string) {
	defer a.cancel()

	start := time.Now()
	scheme, err := c.negotiate(ctx, a, username, password)

	res := Result{AttemptID: a.id, Scheme: scheme}
	if err == nil {
		res.State = StateSuccess
		c.successes.Add(1)
		c.logger.Info("msg", "Login succeeded",
			"component", "auth",
			"attempt_id", a.id,
			"username", username,
			"scheme", scheme,
			"duration", time.Since(start))
	} else {
		res.State = StateFailed
		res.Kind = KindOf(err)
		res.Err = err
		res.Reason = c.reasonFor(err)
		c.failures.Add(1)
		c.logger.Warn("msg", "Login failed",
			"component", "auth",
			"attempt_id", a.id,
			"username", username,
			"scheme", scheme,
			"kind", res.Kind.String(),
			"error", err,
			"duration", time.Since(start))
	}
	c.transition(a, res.State)

	a.result = res
	c.mu.Lock()
	if c.current == a {
		c.current = nil
	}
	c.mu.Unlock()

	if res.OK() {
		if c.callbacks.OnSuccess != nil {
			c.callbacks.OnSuccess()
		}
	} else if c.callbacks.OnFail != nil {
		c.callbacks.OnFail(res.Reason)
	}
	close(a.done)
}

// negotiate probes the endpoint and dispatches on the first challenge. It
// returns the negotiated scheme, if any.
func (c *Client) negotiate(ctx context.Context, a *Attempt, username, password string) (string, error) {
	c.transition(a, StateProbing)

	resp, err := c.transport.Get(ctx, map[string]string{
		core.HeaderAuthorization: core.HelloScheme + " username=" + codec.EncodeBase64URL(codec.UTF8(username)),
	})
	if err != nil {
		return "", wrapTransport(err)
	}

	switch resp.StatusCode {
	case 200:
		return "", nil
	case 401:
	default:
		return "", rejected(resp)
	}

	hello, err := challengeFrom(resp)
	if err != nil {
		return "", err
	}
	c.transition(a, StateChallenged)

	scheme := strings.ToLower(hello.Scheme)
	var exchange func(context.Context, *Attempt, *challenge.Challenge, string, string) error
	switch scheme {
	case "scram":
		exchange = c.scram
	case "plaintext", "x-plaintext":
		exchange = c.plaintext
	default:
		return scheme, fmt.Errorf("%w: %s", ErrUnsupportedScheme, hello.Scheme)
	}

	c.logger.Debug("msg", "Challenge received",
		"component", "auth",
		"attempt_id", a.id,
		"scheme", scheme)

	c.transition(a, StateExchanging)
	return scheme, exchange(ctx, a, hello, username, password)
}

func (c *Client) transition(a *Attempt, s State) {
	prev := a.State()
	a.setState(s)
	c.logger.Debug("msg", "Attempt state changed",
		"component", "auth",
		"attempt_id", a.id,
		"from", prev.String(),
		"to", s.String())
}

// reasonFor picks the user-facing reason for err
func (c *Client) reasonFor(err error) string {
	locale := c.config.Locale

	var rej *RejectedError
	if errors.As(err, &rej) {
		if rej.Reason != "" {
			return rej.Reason
		}
		return locale.BadCreds
	}

	switch KindOf(err) {
	case KindTimeout:
		return locale.Timeout
	case KindCanceled:
		return locale.Canceled
	default:
		return locale.CheckLogs
	}
}

// challengeFrom parses the first challenge of a 401 response
func challengeFrom(resp *transport.Response) (*challenge.Challenge, error) {
	header, ok := resp.Header(core.HeaderWWWAuthenticate)
	if !ok {
		return nil, fmt.Errorf("%w: 401 response without %s header", ErrParse, core.HeaderWWWAuthenticate)
	}
	ch, err := challenge.ParseFirst(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return ch, nil
}

// authHeader formats "<scheme> <name>=<value>[, handshakeToken=<token>]",
// echoing the token carried by prev.
func authHeader(scheme, name, value string, prev *challenge.Challenge) string {
	header := scheme + " " + name + "=" + value
	if tok, ok := prev.Param("handshakeToken"); ok {
		header += ", handshakeToken=" + tok
	}
	return header
}
