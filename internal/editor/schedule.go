package editor

import "time"

// The editor runs single-threaded on the caller's frame loop, so all three
// scheduling helpers are polled with explicit clocks instead of timers.

// debounce defers expensive work until its trigger stream has been quiet
// for a fixed window. Every Trigger pushes the deadline out again.
type debounce struct {
	wait     time.Duration
	deadline time.Time
	armed    bool
}

func newDebounce(wait time.Duration) *debounce { return &debounce{wait: wait} }

// Trigger (re)arms the quiet-period timer.
func (d *debounce) Trigger(now time.Time) {
	d.armed = true
	d.deadline = now.Add(d.wait)
}

// Ready reports true exactly once per burst, after the window elapses.
func (d *debounce) Ready(now time.Time) bool {
	if !d.armed || now.Before(d.deadline) {
		return false
	}
	d.armed = false
	return true
}

// Cancel disarms without firing.
func (d *debounce) Cancel() { d.armed = false }

// Pending reports whether a trigger is waiting to fire.
func (d *debounce) Pending() bool { return d.armed }

// throttle admits calls at a capped steady rate. Unlike debounce it never
// starves under continuous triggering.
type throttle struct {
	interval time.Duration
	next     time.Time
}

func newThrottle(interval time.Duration) throttle { return throttle{interval: interval} }

// Allow reports whether a call may run now; the first call always may.
func (t *throttle) Allow(now time.Time) bool {
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}

// frameFlag coalesces any number of triggers into at most one consume per
// frame.
type frameFlag struct {
	dirty bool
}

func (f *frameFlag) Set() { f.dirty = true }

func (f *frameFlag) Consume() bool {
	was := f.dirty
	f.dirty = false
	return was
}
