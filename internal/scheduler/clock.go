package scheduler

import "time"

// Clock supplies the time for sample stamping and date keys, so tests
// can drive the workers deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall/monotonic clock.
func SystemClock() Clock { return systemClock{} }
