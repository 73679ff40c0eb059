// FILE: src/internal/auth/errors.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"hxlogin/src/internal/core"
	"hxlogin/src/internal/transport"
)

var (
	ErrParse             = errors.New("malformed server message")
	ErrUnsupportedScheme = errors.New("unsupported auth scheme")
	ErrUnsupportedHash   = errors.New("unsupported hash function")
	ErrProtocolIntegrity = errors.New("protocol integrity violation")
	ErrTransport         = errors.New("transport failure")
	ErrTimeout           = errors.New("login attempt timed out")
	ErrCanceled          = errors.New("login attempt canceled")
	ErrAttemptInProgress = errors.New("login attempt already in progress")
	ErrRateLimited       = errors.New("too many login attempts")
)

// Kind classifies why an attempt failed
type Kind int

const (
	KindNone Kind = iota
	KindParse
	KindUnsupportedScheme
	KindUnsupportedHash
	KindProtocolIntegrity
	KindTransport
	KindTimeout
	KindCanceled
	KindInProgress
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParse:
		return "parse"
	case KindUnsupportedScheme:
		return "unsupported_scheme"
	case KindUnsupportedHash:
		return "unsupported_hash"
	case KindProtocolIntegrity:
		return "protocol_integrity"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindInProgress:
		return "in_progress"
	case KindRateLimited:
		return "rate_limited"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf maps err onto a Kind. Errors not produced by this package are
// treated as transport failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrUnsupportedScheme):
		return KindUnsupportedScheme
	case errors.Is(err, ErrUnsupportedHash):
		return KindUnsupportedHash
	case errors.Is(err, ErrProtocolIntegrity):
		return KindProtocolIntegrity
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrCanceled):
		return KindCanceled
	case errors.Is(err, ErrAttemptInProgress):
		return KindInProgress
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	default:
		return KindTransport
	}
}

// RejectedError is a refusal by the server: an unexpected status, or an
// error attribute in the SCRAM server-first message.
type RejectedError struct {
	StatusCode int
	// Server-supplied reason, empty when none was sent
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("server rejected login with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server rejected login with status %d: %s", e.StatusCode, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrTransport
}

func rejected(resp *transport.Response) error {
	reason, _ := resp.Header(core.HeaderLoginErr)
	return &RejectedError{StatusCode: resp.StatusCode, Reason: reason}
}

// wrapTransport normalizes errors coming back from the transport
func wrapTransport(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, transport.ErrTimeout):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}
