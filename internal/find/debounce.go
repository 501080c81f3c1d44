package find

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last pattern keystroke and the
// live search it triggers.
const DefaultDebounce = 30 * time.Millisecond

// Scheduler runs fn on the goroutine that owns the session.
type Scheduler func(fn func())

// Debouncer coalesces rapid calls into one. Each Trigger cancels the
// pending call and schedules a new one; only the last call runs.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	timer    *time.Timer
	gen      uint64
}

// NewDebouncer creates a debouncer. A nil scheduler runs callbacks on the
// timer goroutine. A non-positive delay runs callbacks immediately.
func NewDebouncer(delay time.Duration, schedule Scheduler) *Debouncer {
	if schedule == nil {
		schedule = func(fn func()) { fn() }
	}
	return &Debouncer{delay: delay, schedule: schedule}
}

// Trigger schedules fn after the delay, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.schedule(func() {
			if d.current(gen) {
				fn()
			}
		})
	})
	d.mu.Unlock()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// current reports whether gen is still the latest trigger and, if so,
// consumes it.
func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen || d.timer == nil {
		return false
	}
	d.timer = nil
	return true
}
