package notifications

import "time"

// TimerHandle is the stoppable token behind an armed in-process timer.
type TimerHandle interface {
	// Stop reports whether it stopped the timer before it fired.
	Stop() bool
}

// AfterFunc arms a one-shot timer; swappable in tests to control time.
type AfterFunc func(d time.Duration, f func()) TimerHandle

func stdAfterFunc(d time.Duration, f func()) TimerHandle {
	return time.AfterFunc(d, f)
}
