package pipeline

import "time"

// Clock supplies the current instant to the temporal pathway. Injected so
// tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the runtime clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }
