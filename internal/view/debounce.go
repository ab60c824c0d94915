package view

import (
	"sync"
	"time"
)

// Timer is a pending deferred task.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the default; tests swap
// in a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// debouncer keeps at most one pending task. Arming replaces the pending task
// and only the most recently armed task can run.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	wg      *sync.WaitGroup
	pending Timer
	seq     uint64
}

func newDebouncer(delay time.Duration, after AfterFunc, wg *sync.WaitGroup) *debouncer {
	if after == nil {
		after = realAfterFunc
	}
	return &debouncer{delay: delay, after: after, wg: wg}
}

// Arm cancels any pending task and schedules f after the quiet period.
func (d *debouncer) Arm(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.seq++
	seq := d.seq

	d.wg.Add(1)
	d.pending = d.after(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		f()
	})
}

// Cancel drops the pending task, if any.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *debouncer) cancelLocked() {
	d.seq++
	if d.pending == nil {
		return
	}
	if d.pending.Stop() {
		// The callback will never run, so it cannot release its slot.
		d.wg.Done()
	}
	d.pending = nil
}
