package model

// RoutineType names how often a routine repeats.
type RoutineType string

const (
	RoutineDaily  RoutineType = "daily"
	RoutineWeekly RoutineType = "weekly"
)

// Routine is an optional recurrence rule attached to a category.
// Days holds weekday indices (0 = Sunday) and is only meaningful for weekly routines.
type Routine struct {
	Type RoutineType `json:"type" validate:"required,oneof=daily weekly"`
	Days []int       `json:"days,omitempty" validate:"omitempty,dive,min=0,max=6"`
}

// Streak counts consecutive scheduled days completed up to LastCompleted.
type Streak struct {
	Count         int    `json:"count" validate:"gte=0"`
	LastCompleted string `json:"lastCompleted,omitempty"`
}

// Category is a focus area units are logged against (work, health, study, etc.).
type Category struct {
	ID      string   `json:"id" validate:"required"`
	Label   string   `json:"label" validate:"required"`
	Color   string   `json:"color" validate:"required"`
	Routine *Routine `json:"routine,omitempty" validate:"omitempty"`
	Streak  *Streak  `json:"streak,omitempty" validate:"omitempty"`
}

// HasRoutine reports whether the category is routine-tracked.
func (c Category) HasRoutine() bool {
	return c.Routine != nil
}

// StreakCount returns the stored streak count, zero when no streak exists.
func (c Category) StreakCount() int {
	if c.Streak == nil {
		return 0
	}
	return c.Streak.Count
}

// Clone returns a deep copy so callers can edit without touching shared snapshots.
func (c Category) Clone() Category {
	out := c
	if c.Routine != nil {
		r := *c.Routine
		r.Days = append([]int(nil), c.Routine.Days...)
		out.Routine = &r
	}
	if c.Streak != nil {
		s := *c.Streak
		out.Streak = &s
	}
	return out
}
