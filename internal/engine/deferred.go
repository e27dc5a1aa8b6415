package engine

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer that Deferred needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, fn func()) Timer

func realAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Deferred holds at most one scheduled task. Scheduling replaces whatever
// was pending; a replaced or cancelled task never runs, even if its timer
// already fired.
type Deferred struct {
	after AfterFunc

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending bool
}

// NewDeferred uses after as its clock, or time.AfterFunc when nil.
func NewDeferred(after AfterFunc) *Deferred {
	if after == nil {
		after = realAfterFunc
	}
	return &Deferred{after: after}
}

func (d *Deferred) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.after(delay, func() {
		d.mu.Lock()
		if gen != d.gen || !d.pending {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending task and reports whether there was one.
func (d *Deferred) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.stopLocked()
	d.gen++
	return was
}

func (d *Deferred) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Deferred) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
