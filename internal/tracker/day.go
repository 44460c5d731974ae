// Package tracker holds the routine and streak logic of the habit tracker.
//
// Every function here is pure: the current day and the data snapshot are
// passed in, and a new snapshot is returned. Nothing reads the wall clock.
package tracker

import (
	"fmt"
	"time"
)

// DateLayout is the layout of every date key in the log.
const DateLayout = "2006-01-02"

// Day is one calendar day in the user's local time.
type Day struct {
	Date      string
	Weekday   time.Weekday
	Yesterday string
}

// NewDay builds the Day containing t, in t's location.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Day{
		Date:      midnight.Format(DateLayout),
		Weekday:   midnight.Weekday(),
		Yesterday: midnight.AddDate(0, 0, -1).Format(DateLayout),
	}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return NewDay(t), nil
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	t, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return d
	}
	return NewDay(t.AddDate(0, 0, n))
}

func (d Day) String() string {
	return d.Date
}
