package editor

import (
	"testing"
	"time"
)

func TestDebounce_FiresOnceAfterQuietWindow(t *testing.T) {
	d := newDebounce(120 * time.Millisecond)

	d.Trigger(at(0))
	if d.Ready(at(119)) {
		t.Fatal("fired before the quiet window elapsed")
	}
	if !d.Ready(at(120)) {
		t.Fatal("did not fire once the quiet window elapsed")
	}
	if d.Ready(at(121)) {
		t.Fatal("fired a second time for the same burst")
	}
}

func TestDebounce_RetriggerPushesDeadline(t *testing.T) {
	d := newDebounce(120 * time.Millisecond)

	d.Trigger(at(0))
	d.Trigger(at(100))
	if d.Ready(at(120)) {
		t.Fatal("fired at the original deadline despite a retrigger")
	}
	if !d.Ready(at(220)) {
		t.Fatal("did not fire 120ms after the last trigger")
	}
}

func TestDebounce_CancelDisarms(t *testing.T) {
	d := newDebounce(120 * time.Millisecond)

	d.Trigger(at(0))
	if !d.Pending() {
		t.Fatal("not pending after trigger")
	}
	d.Cancel()
	if d.Pending() {
		t.Fatal("still pending after cancel")
	}
	if d.Ready(at(500)) {
		t.Fatal("fired after cancel")
	}
}

func TestThrottle_FirstCallAlwaysAllowed(t *testing.T) {
	th := newThrottle(40 * time.Millisecond)
	if !th.Allow(at(0)) {
		t.Fatal("first call was throttled")
	}
}

func TestThrottle_CapsSteadyRate(t *testing.T) {
	th := newThrottle(40 * time.Millisecond)

	allowed := 0
	for ms := 0; ms <= 200; ms += 10 {
		if th.Allow(at(ms)) {
			allowed++
		}
	}
	// 0, 40, 80, 120, 160, 200.
	if allowed != 6 {
		t.Fatalf("allowed %d calls over 200ms at a 40ms interval, want 6", allowed)
	}
}

func TestThrottle_NeverStarvesUnderContinuousTriggering(t *testing.T) {
	th := newThrottle(40 * time.Millisecond)
	th.Allow(at(0))

	// A debounce would keep deferring here; the throttle must not.
	fired := false
	for ms := 1; ms <= 80; ms++ {
		if th.Allow(at(ms)) {
			fired = true
			break
		}
	}
	if !fired {
		t.Fatal("starved during continuous triggering")
	}
}

func TestFrameFlag_CoalescesIntoOneConsume(t *testing.T) {
	var f frameFlag

	f.Set()
	f.Set()
	f.Set()
	if !f.Consume() {
		t.Fatal("flag not set after Set")
	}
	if f.Consume() {
		t.Fatal("flag still set after consume")
	}
}
