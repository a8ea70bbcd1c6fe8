package shift

import "time"

// Clock supplies the current instant. Injected so tests can drive time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
