// Package clock supplies the current instant and calendar day to the tracker.
package clock

import (
	"time"

	"momentum/internal/tracker"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Today returns the calendar day of the clock's current instant.
func Today(c Clock) tracker.Day {
	return tracker.NewDay(c.Now())
}
