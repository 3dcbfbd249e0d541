package formclient

import (
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Tests swap in a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules callbacks on the runtime timer.
var RealScheduler Scheduler = realScheduler{}

// Debouncer keeps at most one pending callback per key. Scheduling a key
// again cancels its previous callback.
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	timers    map[string]*debounceEntry
	seq       uint64
	stopped   bool
}

type debounceEntry struct {
	timer Timer
	seq   uint64
}

// NewDebouncer creates a Debouncer. A nil scheduler uses RealScheduler.
func NewDebouncer(scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = RealScheduler
	}
	return &Debouncer{
		scheduler: scheduler,
		timers:    make(map[string]*debounceEntry),
	}
}

// Debounce schedules fn to run after delay under key, replacing any callback
// still pending for that key. It is a no-op once the Debouncer is stopped.
func (d *Debouncer) Debounce(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.timers[key]; ok {
		prev.timer.Stop()
	}
	d.seq++
	seq := d.seq

	entry := &debounceEntry{seq: seq}
	entry.timer = d.scheduler.AfterFunc(delay, func() {
		d.mu.Lock()
		current, ok := d.timers[key]
		// A timer that fired while being replaced must not run.
		if !ok || current.seq != seq || d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		fn()
	})
	d.timers[key] = entry
}

// Cancel drops the pending callback for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.timers[key]; ok {
		entry.timer.Stop()
		delete(d.timers, key)
	}
}

// Pending reports how many keys have a callback waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback and rejects new ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, entry := range d.timers {
		entry.timer.Stop()
		delete(d.timers, key)
	}
}
