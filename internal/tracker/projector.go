package tracker

import "momentum/internal/model"

// Status is the completion state of a routine on a given day.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// RoutineStatus is what the UI renders for one of today's routines.
type RoutineStatus struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Status Status `json:"status"`
	Streak int    `json:"streak"`
}

// TodaysRoutines lists the routines due on today in category order.
func TodaysRoutines(categories []model.Category, log model.Log, today Day) []RoutineStatus {
	out := make([]RoutineStatus, 0, len(categories))
	for _, cat := range categories {
		if !IsScheduled(cat.Routine, today.Weekday) {
			continue
		}
		completed := IsCompletedOn(log, today.Date, cat.ID)
		status := StatusPending
		if completed {
			status = StatusCompleted
		}
		out = append(out, RoutineStatus{
			ID:     cat.ID,
			Label:  cat.Label,
			Color:  cat.Color,
			Status: status,
			Streak: DisplayedStreak(cat.Streak, completed, today.Date, PreviousScheduledDay(cat.Routine, today)),
		})
	}
	return out
}

// Celebrations returns the routines that were pending in previous and are
// completed in current.
func Celebrations(previous, current []RoutineStatus) []RoutineStatus {
	before := make(map[string]Status, len(previous))
	for _, r := range previous {
		before[r.ID] = r.Status
	}
	var out []RoutineStatus
	for _, r := range current {
		if r.Status == StatusCompleted && before[r.ID] == StatusPending {
			out = append(out, r)
		}
	}
	return out
}
