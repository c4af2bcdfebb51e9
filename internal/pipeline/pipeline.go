// Package pipeline runs the background acquisition loops. Each loop polls
// its hardware source at a target rate and publishes successful reads into
// a single-slot latest-frame buffer; consumers only ever observe frames
// through the staleness-gated buffer reads.
package pipeline

import (
	"context"
	"sync"
	"time"
)

// notReadyBackoff is how long a loop sleeps before rechecking an
// unavailable source.
const notReadyBackoff = 500 * time.Millisecond

// logEvery throttles repeated failure warnings inside the loops.
const logEvery = 5 * time.Second

// runner owns the lifecycle shared by both loops: lazy start on first HTTP
// access, and cancellation checked at the loop top and at every sleep.
type runner struct {
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// ensureStarted launches loop in a goroutine unless it is already running.
func (r *runner) ensureStarted(loop func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true
	go func() {
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()
		loop(ctx)
	}()
}

// stop cancels the loop. It does not wait for exit; the loop observes the
// cancellation within one polling interval.
func (r *runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// sleep pauses for d or until ctx is cancelled. It reports false when the
// loop should exit.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
