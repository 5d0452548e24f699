package engine

import "time"

// Clock supplies the current time once per tick. The engine never calls
// time.Now directly so tests can drive the sweep with a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
