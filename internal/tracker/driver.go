package tracker

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 2 * time.Second

// Driver runs Tracker passes on a fixed interval while an identifier is being watched.
type Driver struct {
	tracker  *Tracker
	interval time.Duration

	mu       sync.Mutex
	watching string
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewDriver creates a poll driver. interval <= 0 means DefaultInterval.
func NewDriver(t *Tracker, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{tracker: t, interval: interval}
}

// Watch points the driver at identifier. A non-empty identifier runs one pass
// immediately and then one per interval until ctx ends or Watch is called with
// another value. An empty identifier stops polling and clears the tracker.
// Watching the identifier already being watched is a no-op.
func (d *Driver) Watch(ctx context.Context, identifier string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if identifier != "" && identifier == d.watching && d.runningLocked() {
		return
	}
	d.stopLocked()
	d.tracker.Begin(identifier)
	d.watching = identifier
	if identifier == "" {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	go d.loop(loopCtx, done)
}

// Close stops polling and waits for the loop to exit. The tracker keeps its last state.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.watching = ""
}

// Interval returns the configured poll interval.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// runningLocked reports whether a loop exists and has not exited on its own.
func (d *Driver) runningLocked() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// stopLocked cancels the running loop, if any, and waits for it to return.
// Cancelling aborts an in-flight probe request; its result is discarded.
func (d *Driver) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

// loop runs passes sequentially: a tick that arrives while a pass is still
// waiting on its probe is dropped by the ticker rather than queued.
func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	d.tracker.RunPass(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			d.tracker.RunPass(ctx)
		}
	}
}
