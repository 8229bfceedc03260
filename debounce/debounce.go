// Package debounce runs only the last of a burst of scheduled calls.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays a call until no other call has been scheduled for the
// wait period. Scheduling a new call stops the pending timer and cancels the
// context of any call that is still running.
type Debouncer struct {
	mu     sync.Mutex
	wait   time.Duration
	timer  *time.Timer
	cancel context.CancelFunc
}

// New creates a Debouncer with the given quiet period.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Schedule replaces any pending or running call with fn.
func (d *Debouncer) Schedule(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.wait, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Cancel drops the pending call and cancels a running one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
