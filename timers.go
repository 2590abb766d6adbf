package marionette

import (
	"sort"
	"time"
)

// TimerID identifies a pending callback registered with Timers.After.
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// Timers is a deferred callback queue driven by the caller's clock. It is not
// safe for concurrent use; advance it from the same goroutine that drives the
// engine.
type Timers struct {
	now     time.Duration
	nextID  TimerID
	pending []timer
}

// NewTimers returns an empty queue.
func NewTimers() *Timers {
	return &Timers{}
}

// After schedules fn to run once delay has elapsed. A non-positive delay runs
// fn on the next Advance.
func (t *Timers) After(delay time.Duration, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	t.nextID++
	t.pending = append(t.pending, timer{id: t.nextID, due: t.now + delay, fn: fn})
	return t.nextID
}

// Cancel removes a pending callback. It reports whether one was removed.
func (t *Timers) Cancel(id TimerID) bool {
	for i, tm := range t.pending {
		if tm.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// ClearAll drops every pending callback.
func (t *Timers) ClearAll() {
	t.pending = t.pending[:0]
}

// Pending returns the number of callbacks that have not fired yet.
func (t *Timers) Pending() int {
	return len(t.pending)
}

// Advance moves the clock forward by dt and runs every callback that became
// due, earliest first. Callbacks due at the same instant run in registration
// order. Callbacks scheduled from inside a callback wait for a later Advance.
func (t *Timers) Advance(dt time.Duration) {
	if dt > 0 {
		t.now += dt
	}
	if len(t.pending) == 0 {
		return
	}

	var due, keep []timer
	for _, tm := range t.pending {
		if tm.due <= t.now {
			due = append(due, tm)
		} else {
			keep = append(keep, tm)
		}
	}
	t.pending = keep
	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, tm := range due {
		tm.fn()
	}
}

// msDuration converts engine milliseconds to a Duration.
func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
