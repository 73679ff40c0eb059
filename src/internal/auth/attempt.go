// FILE: src/internal/auth/attempt.go
package auth

import (
	"context"
	"sync/atomic"
)

// State is the position of an attempt in the login state machine
type State int32

const (
	StateIdle State = iota
	StateProbing
	StateChallenged
	StateExchanging
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateChallenged:
		return "challenged"
	case StateExchanging:
		return "exchanging"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Result is the outcome of one attempt
type Result struct {
	State State
	Kind  Kind
	// User-facing failure reason, empty on success
	Reason string
	Err    error
	// Negotiated scheme, empty if the probe alone decided the outcome
	Scheme    string
	AttemptID string
}

// OK reports a successful login
func (r Result) OK() bool {
	return r.State == StateSuccess
}

// Attempt is a handle on a login running in the background
type Attempt struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32

	// Written once before done is closed
	result Result
}

func newAttempt(id string, cancel context.CancelFunc) *Attempt {
	return &Attempt{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the attempt id used in log lines
func (a *Attempt) ID() string {
	return a.id
}

// Done is closed once the outcome is known and the callback has returned
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// State returns the current state
func (a *Attempt) State() State {
	return State(a.state.Load())
}

// Result returns the outcome. Before Done is closed only State and
// AttemptID are set.
func (a *Attempt) Result() Result {
	select {
	case <-a.done:
		return a.result
	default:
		return Result{State: a.State(), AttemptID: a.id}
	}
}

// Cancel abandons the attempt. An in-flight request is dropped and the
// attempt fails with KindCanceled unless it already finished.
func (a *Attempt) Cancel() {
	a.cancel()
}

// Wait blocks until the attempt finishes or ctx is done
func (a *Attempt) Wait(ctx context.Context) (Result, error) {
	select {
	case <-a.done:
		return a.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (a *Attempt) setState(s State) {
	a.state.Store(int32(s))
}
