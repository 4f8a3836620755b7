package session

import "time"

// HoldDuration is how long a tentative selection is held.
const HoldDuration = 5 * time.Minute

// TimerState is the lifecycle of a reservation timer.
type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

// Timer is the reservation countdown.  It does not read the clock: the
// owner advances it one second per Tick, so tests drive it directly.
type Timer struct {
	duration  time.Duration
	remaining time.Duration
	state     TimerState
}

// NewTimer returns an idle timer for d, or HoldDuration when d is not
// positive.
func NewTimer(d time.Duration) *Timer {
	if d <= 0 {
		d = HoldDuration
	}
	return &Timer{duration: d, remaining: d, state: TimerIdle}
}

// Start (re)arms the timer at its full duration.
func (t *Timer) Start() {
	t.remaining = t.duration
	t.state = TimerRunning
}

// Tick takes one second off a running timer.  It returns true only on the
// tick that reaches zero, which moves the timer to expired; every later
// tick is a no-op that returns false.
func (t *Timer) Tick() bool {
	if t.state != TimerRunning {
		return false
	}
	t.remaining -= time.Second
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.state = TimerExpired
	return true
}

// Stop discards the countdown and returns the timer to idle.
func (t *Timer) Stop() {
	t.remaining = t.duration
	t.state = TimerIdle
}

// Active reports whether the countdown is running.
func (t *Timer) Active() bool { return t.state == TimerRunning }

// State returns the current lifecycle state.
func (t *Timer) State() TimerState { return t.state }

// Remaining splits the time left into minutes and seconds.
func (t *Timer) Remaining() (minutes, seconds int) {
	secs := int(t.remaining / time.Second)
	return secs / 60, secs % 60
}

// TimerView is the JSON shape of a timer.
type TimerView struct {
	Minutes int        `json:"minutes"`
	Seconds int        `json:"seconds"`
	Active  bool       `json:"active"`
	State   TimerState `json:"state"`
}

// View snapshots the timer.
func (t *Timer) View() TimerView {
	m, s := t.Remaining()
	return TimerView{Minutes: m, Seconds: s, Active: t.Active(), State: t.state}
}
