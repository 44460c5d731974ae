package tracker

import "momentum/internal/model"

// AdvanceStreak returns the streak after a completion on today.
//
// A second call on the same day is a no-op, a completion the day after
// lastCompleted continues the streak, and anything else starts a new one.
// The streak is never decremented here; lapses are computed at read time.
func AdvanceStreak(streak *model.Streak, today, yesterday string) model.Streak {
	if streak == nil {
		return model.Streak{Count: 1, LastCompleted: today}
	}
	switch streak.LastCompleted {
	case today:
		return *streak
	case yesterday:
		return model.Streak{Count: streak.Count + 1, LastCompleted: today}
	default:
		return model.Streak{Count: 1, LastCompleted: today}
	}
}

// DisplayedStreak returns the streak to show for a routine on today.
// A pending routine keeps its count only while the streak is still alive,
// i.e. last completed today or on the previous scheduled day.
func DisplayedStreak(streak *model.Streak, completed bool, today, yesterday string) int {
	if streak == nil || streak.Count < 0 {
		return 0
	}
	if completed {
		return streak.Count
	}
	if streak.LastCompleted == today || streak.LastCompleted == yesterday {
		return streak.Count
	}
	return 0
}
