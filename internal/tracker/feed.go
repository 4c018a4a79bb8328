package tracker

// Feed hands snapshots to a single consumer without ever blocking the tracker.
// When the consumer falls behind, only the newest snapshot is kept; since
// statuses only move forward, the consumer still sees every final status.
type Feed struct {
	ch chan Snapshot
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan Snapshot, 1)}
}

// Observe is a tracker Observer. Pass it to WithObserver.
func (f *Feed) Observe(snap Snapshot) {
	for {
		select {
		case f.ch <- snap:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// C returns the channel snapshots are delivered on. It is never closed.
func (f *Feed) C() <-chan Snapshot {
	return f.ch
}
