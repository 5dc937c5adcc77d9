package libobs

import (
	"context"
	"sync"
)

// Signal is one (output, outcome) pair delivered by the engine.
type Signal struct {
	Output string
	Code   OutcomeCode
}

// SignalDispatcher correlates asynchronous output signals with the callers
// waiting for them.
//
// Send never blocks: the engine calls it from its own threads. Messages go
// to an unbounded inbox. Waiters move everything buffered into a holding list
// and take the first entry for their output name; entries for other outputs
// stay in the holding list for their own waiters, so outputs stopping
// concurrently never consume each other's results.
type SignalDispatcher struct {
	mu      sync.Mutex
	inbox   []Signal
	holding []Signal
	wake    chan struct{}
	closed  bool
}

// NewSignalDispatcher returns an open dispatcher.
func NewSignalDispatcher() *SignalDispatcher {
	return &SignalDispatcher{wake: make(chan struct{})}
}

// Send queues a signal. Signals sent after Close are discarded.
func (d *SignalDispatcher) Send(output string, code OutcomeCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.inbox = append(d.inbox, Signal{Output: output, Code: code})
	close(d.wake)
	d.wake = make(chan struct{})
}

// Correlate blocks until a signal for output arrives and returns its code.
func (d *SignalDispatcher) Correlate(output string) (OutcomeCode, error) {
	return d.CorrelateContext(context.Background(), output)
}

// CorrelateContext is Correlate with cancellation. A cancelled wait leaves
// any later signal for output in the holding list.
func (d *SignalDispatcher) CorrelateContext(ctx context.Context, output string) (OutcomeCode, error) {
	for {
		d.mu.Lock()
		d.drainLocked()
		if code, ok := d.takeLocked(output); ok {
			d.mu.Unlock()
			return code, nil
		}
		if d.closed {
			d.mu.Unlock()
			return 0, ErrSignalClosed
		}
		wake := d.wake
		d.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Pending returns the signals not yet claimed by any waiter.
func (d *SignalDispatcher) Pending() []Signal {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()
	out := make([]Signal, len(d.holding))
	copy(out, d.holding)
	return out
}

// Close wakes all waiters with ErrSignalClosed once nothing they wait for
// is buffered.
func (d *SignalDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.wake)
}

// discard drops every buffered signal for output.
func (d *SignalDispatcher) discard(output string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()
	kept := d.holding[:0]
	for _, s := range d.holding {
		if s.Output != output {
			kept = append(kept, s)
		}
	}
	n := len(d.holding) - len(kept)
	d.holding = kept
	return n
}

func (d *SignalDispatcher) drainLocked() {
	if len(d.inbox) == 0 {
		return
	}
	d.holding = append(d.holding, d.inbox...)
	d.inbox = d.inbox[:0]
}

func (d *SignalDispatcher) takeLocked(output string) (OutcomeCode, bool) {
	for i, s := range d.holding {
		if s.Output == output {
			d.holding = append(d.holding[:i], d.holding[i+1:]...)
			return s.Code, true
		}
	}
	return 0, false
}
