package browse

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay applied to text-input events before a
// search is dispatched.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces bursts of events into a single delayed action.
// Each Schedule call restarts the delay; only the action from the last
// call in a burst ever runs. The action is delivered through the post
// hook so it executes on the owner's event context, never concurrently
// with it.
type Debouncer struct {
	delay time.Duration
	post  func(func())

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer with the given delay. A delay <= 0
// falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration, post func(func())) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Debouncer{
		delay: delay,
		post:  post,
	}
}

// Schedule arranges for action to run once after the delay, cancelling
// any previously scheduled action that has not fired yet.
func (d *Debouncer) Schedule(action func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq

	d.timer = time.AfterFunc(d.delay, func() {
		d.post(func() {
			// Stop can lose the race with an already-fired timer, so the
			// sequence check is what actually guarantees exactly-once.
			d.mu.Lock()
			current := seq == d.seq
			if current {
				d.timer = nil
			}
			d.mu.Unlock()
			if current {
				action()
			}
		})
	})
}

// Cancel drops any pending action without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Pending reports whether an action is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
