// Package autosync pushes the local configuration shortly after the user
// edits it.
package autosync

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period after the last change before a push.
const DefaultDelay = 5 * time.Second

// Debouncer runs fn once the triggers stop for delay. Each trigger cancels
// the pending run and schedules a new one. Runs never overlap.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	runMu sync.Mutex
}

// NewDebouncer creates a Debouncer. A non-positive delay means DefaultDelay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules a run after the delay, replacing any pending one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.run)
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending run and ignores later triggers. A run already in
// progress is allowed to finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) run() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}
