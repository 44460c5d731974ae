package tracker

import (
	"errors"
	"fmt"

	"momentum/internal/model"
)

// ErrUnknownCategory is returned when an action names a category that does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// LogOutcome describes what a log action changed.
type LogOutcome struct {
	CategoryID     string
	Count          int
	StreakAdvanced bool
	Streak         int
}

// LogUnit logs one unit for a category on today and, when the category has a
// routine due today that was not yet completed, advances its streak. Units
// logged on a day the routine is not due leave the streak alone. The result
// is a full next-state aggregate to be saved as one unit.
func LogUnit(data model.UserData, categoryID string, today Day) (model.UserData, LogOutcome, error) {
	idx := data.CategoryIndex(categoryID)
	if idx < 0 {
		return data, LogOutcome{}, fmt.Errorf("log unit %q: %w", categoryID, ErrUnknownCategory)
	}

	wasCompleted := IsCompletedOn(data.Log, today.Date, categoryID)

	next := data.Clone()
	next.Log = AddUnit(data.Log, today.Date, categoryID)

	outcome := LogOutcome{
		CategoryID: categoryID,
		Count:      next.Log.Count(today.Date, categoryID),
	}

	cat := &next.Settings.Categories[idx]
	if !wasCompleted && IsScheduled(cat.Routine, today.Weekday) {
		streak := AdvanceStreak(cat.Streak, today.Date, PreviousScheduledDay(cat.Routine, today))
		outcome.StreakAdvanced = cat.Streak == nil || *cat.Streak != streak
		cat.Streak = &streak
	}
	outcome.Streak = cat.StreakCount()

	return next, outcome, nil
}

// RemoveLoggedUnit takes back one unit for a category on today. Streaks are left
// untouched; a lapsed completion shows up at read time.
func RemoveLoggedUnit(data model.UserData, categoryID string, today Day) (model.UserData, LogOutcome, error) {
	idx := data.CategoryIndex(categoryID)
	if idx < 0 {
		return data, LogOutcome{}, fmt.Errorf("remove unit %q: %w", categoryID, ErrUnknownCategory)
	}
	next := data.Clone()
	next.Log = RemoveUnit(data.Log, today.Date, categoryID)
	return next, LogOutcome{
		CategoryID: categoryID,
		Count:      next.Log.Count(today.Date, categoryID),
		Streak:     next.Settings.Categories[idx].StreakCount(),
	}, nil
}

// EditDay replaces the counts logged on a past or present day.
func EditDay(data model.UserData, date string, counts map[string]int) (model.UserData, error) {
	if _, err := ParseDay(date); err != nil {
		return data, err
	}
	next := data.Clone()
	next.Log = SetDay(data.Log, date, counts)
	return next, nil
}
