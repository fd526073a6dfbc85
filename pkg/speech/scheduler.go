package speech

import "time"

// Cancel revokes a scheduled task. Calling it after the task ran, or more
// than once, is harmless.
type Cancel func()

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Cancel
}

// TimerScheduler schedules on the runtime timer. fn runs on its own
// goroutine.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return func() {
		t.Stop()
	}
}

var _ Scheduler = TimerScheduler{}
