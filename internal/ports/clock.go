package ports

import "time"

// Clock supplies the current time; evaluators never read the wall clock directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
