package clock

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock provides the current instant and one-shot scheduled callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

// Wall returns the production clock.
//
// Now drops the monotonic reading, so a duration between two instants includes
// time the host spent asleep.
func Wall() Clock {
	return wallClock{}
}

func (wallClock) Now() time.Time {
	return time.Now().Round(0)
}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
