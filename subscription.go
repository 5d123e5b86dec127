package nethttp

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription states. A call leaves stateRunning exactly once.
const (
	stateRunning int32 = iota
	stateCancelled
	stateSettled
)

// Subscription is the handle of one in-flight call. It is returned
// before any callback runs.
type Subscription struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32
	done   chan struct{}
	err    error
}

func newSubscription(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)

	return &Subscription{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID identifies the call in logs and spans.
func (s *Subscription) ID() string { return s.id }

// Done returns a channel that is closed once the call has finished
// and its last callback has returned.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err blocks until the call finishes and returns the error it ended
// with, which is context.Canceled after [Subscription.Cancel].
func (s *Subscription) Err() error {
	<-s.done
	return s.err
}

// Cancel aborts the call and suppresses every callback that has not
// started yet. It is a no-op once the call's outcome is decided, which
// includes calls from inside OnRequestCompleted or OnError.
func (s *Subscription) Cancel() {
	if s.state.CompareAndSwap(stateRunning, stateCancelled) {
		s.cancel()
	}
}

// Cancelled reports whether Cancel took effect.
func (s *Subscription) Cancelled() bool {
	return s.state.Load() == stateCancelled
}

// settle decides the outcome of the call. It reports false when Cancel
// won, after which no callback may run.
func (s *Subscription) settle() bool {
	return s.state.CompareAndSwap(stateRunning, stateSettled) || s.state.Load() == stateSettled
}

// guard runs fn unless the subscription was cancelled.
func (s *Subscription) guard(fn func()) {
	if s.Cancelled() {
		return
	}
	fn()
}

// finish records the outcome and releases the call context.
func (s *Subscription) finish(err error) {
	s.err = err
	s.cancel()
	close(s.done)
}
