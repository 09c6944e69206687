package games

import "time"

// Timer is a handle on a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred work. The memory board uses it to delay the
// resolution of a flipped pair.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
