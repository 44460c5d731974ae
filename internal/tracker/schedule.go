package tracker

import (
	"time"

	"momentum/internal/model"
)

// IsScheduled reports whether a routine is due on the given weekday.
// Unknown routine types are treated as not scheduled.
func IsScheduled(routine *model.Routine, weekday time.Weekday) bool {
	if routine == nil {
		return false
	}
	switch routine.Type {
	case model.RoutineDaily:
		return true
	case model.RoutineWeekly:
		for _, d := range routine.Days {
			if d == int(weekday) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// PreviousScheduledDay returns the latest date before today on which the routine
// was due. Daily routines, and weekly routines without days, fall back to yesterday.
func PreviousScheduledDay(routine *model.Routine, today Day) string {
	if routine == nil || routine.Type != model.RoutineWeekly || len(routine.Days) == 0 {
		return today.Yesterday
	}
	for i := 1; i <= 7; i++ {
		prev := today.AddDays(-i)
		if IsScheduled(routine, prev.Weekday) {
			return prev.Date
		}
	}
	return today.Yesterday
}

// NormalizeDays drops out-of-range and duplicate weekdays and sorts the rest.
func NormalizeDays(days []int) []int {
	var seen [7]bool
	for _, d := range days {
		if d >= 0 && d <= 6 {
			seen[d] = true
		}
	}
	out := make([]int, 0, 7)
	for d, ok := range seen {
		if ok {
			out = append(out, d)
		}
	}
	return out
}
