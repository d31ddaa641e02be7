package egret

import (
	"context"
	"sync"
)

// Eventual is the Go mapping of the spec's "eventual future": a value
// produced asynchronously by a handler. A handler returns
// FromEventual(ev) when the work hasn't completed yet; the dispatch
// Engine awaits it (racing against the request's disconnect) and
// re-applies Result Coercion to whatever it resolves to.
//
// Eventual is single-assignment: of Resolve, Reject and the Engine's
// cancellation (cancelFor), only the first to run has any effect.
type Eventual struct {
	done   chan struct{}
	mu     sync.Mutex
	value  Result
	err    error
	cancel context.CancelFunc
}

// NewEventual creates an unresolved Eventual. cancel, if non-nil, is
// invoked when the Engine cancels this Eventual due to client disconnect
// (spec.md §5, "Cancellation") — typically a context.CancelFunc for
// whatever goroutine is computing the value.
func NewEventual(cancel context.CancelFunc) *Eventual {
	return &Eventual{done: make(chan struct{}), cancel: cancel}
}

// Resolve completes the Eventual successfully. Only the first call (among
// Resolve/Reject/cancelFor) has effect.
func (e *Eventual) Resolve(r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.done:
		return
	default:
	}
	e.value = r
	close(e.done)
}

// Reject completes the Eventual with a failure, fed to the Error Pipeline
// by the Engine. Only the first call (among Resolve/Reject/cancelFor) has
// effect.
func (e *Eventual) Reject(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.done:
		return
	default:
	}
	e.err = err
	close(e.done)
}

// cancelFor marks the Eventual cancelled (used internally by the Engine
// when the request's disconnect future fires while this Eventual is still
// pending) and invokes the caller-supplied cancel func, if any.
func (e *Eventual) cancelFor(route string) {
	e.mu.Lock()
	alreadyDone := false
	select {
	case <-e.done:
		alreadyDone = true
	default:
	}
	if !alreadyDone {
		e.err = &CancelledError{Route: route}
		close(e.done)
	}
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// wait blocks until the Eventual resolves, rejects, is cancelled, or ctx
// is done (client disconnect). It returns the Result, an error, or
// ctx.Err() if ctx won first.
func (e *Eventual) wait(ctx context.Context) (Result, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
