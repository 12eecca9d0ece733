package clock

import (
	"time"
)

// Clock is an interface that abstracts measuring time and scheduling timers,
// so that components driven by delays can be tested deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
	// Sleep pauses the current goroutine for at least the duration d. A negative or zero duration causes Sleep to return immediately.
	Sleep(duration time.Duration)
	// AfterFunc arranges for f to be called once after duration d.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is an armed single-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the timer
	// was still armed. Stop does not wait for a callback already running.
	Stop() bool
	// Reset re-arms the timer to fire after duration d.
	Reset(d time.Duration) bool
}

type clock struct{}

// New creates a new instance of Clock backed by real time.
func New() Clock {
	return clock{}
}

func (clock) Now() time.Time {
	return time.Now()
}

func (clock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

func (clock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{timer: time.AfterFunc(d, f)}
}

type realTimer struct {
	timer *time.Timer
}

func (r realTimer) Stop() bool {
	return r.timer.Stop()
}

func (r realTimer) Reset(d time.Duration) bool {
	return r.timer.Reset(d)
}
