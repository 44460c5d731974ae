package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/focus"
	"momentum/internal/model"
	"momentum/internal/service"
	"momentum/internal/tracker"
)

func TestParseRoutineArgs(t *testing.T) {
	tests := []struct {
		args    string
		ref     string
		routine *model.Routine
	}{
		{"Deep work daily", "Deep work", &model.Routine{Type: model.RoutineDaily}},
		{"gym weekly mon,wed,fri", "gym", &model.Routine{Type: model.RoutineWeekly, Days: []int{1, 3, 5}}},
		{"gym weekly 6 0 saturday", "gym", &model.Routine{Type: model.RoutineWeekly, Days: []int{0, 6}}},
		{"Read off", "Read", nil},
		{"Daily standup daily", "Daily standup", &model.Routine{Type: model.RoutineDaily}},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			ref, routine, err := parseRoutineArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.ref, ref)
			assert.Equal(t, tt.routine, routine)
		})
	}
}

func TestParseRoutineArgs_Errors(t *testing.T) {
	for _, args := range []string{"", "daily", "gym weekly", "gym weekly funday", "gym weekly 7", "gym daily mon", "gym hourly"} {
		_, _, err := parseRoutineArgs(args)
		assert.Error(t, err, args)
	}
}

func TestParseAddCategoryArgs(t *testing.T) {
	label, color := parseAddCategoryArgs("  Deep   work #22c55e ")
	assert.Equal(t, "Deep work", label)
	assert.Equal(t, "#22c55e", color)

	label, color = parseAddCategoryArgs("Reading")
	assert.Equal(t, "Reading", label)
	assert.Empty(t, color)
}

func TestParseEditCategoryArgs(t *testing.T) {
	ref, label, color, err := parseEditCategoryArgs("Deep  work | Focus time #22c55e")
	require.NoError(t, err)
	assert.Equal(t, "Deep work", ref)
	assert.Equal(t, "Focus time", label)
	assert.Equal(t, "#22c55e", color)

	ref, label, color, err = parseEditCategoryArgs("Work | #ef4444")
	require.NoError(t, err)
	assert.Equal(t, "Work", ref)
	assert.Empty(t, label)
	assert.Equal(t, "#ef4444", color)

	for _, args := range []string{"", "Work Focus", "| Focus", "Work |  "} {
		_, _, _, err := parseEditCategoryArgs(args)
		assert.Error(t, err, args)
	}
}

func TestParseMoveArgs(t *testing.T) {
	from, to, err := parseMoveArgs(" 3 1 ")
	require.NoError(t, err)
	assert.Equal(t, 2, from)
	assert.Equal(t, 0, to)

	for _, args := range []string{"", "1", "1 2 3", "0 1", "a 2", "2 -1"} {
		_, _, err := parseMoveArgs(args)
		assert.Error(t, err, args)
	}
}

func TestFormatCategories_NumbersPositions(t *testing.T) {
	text := formatCategories([]model.Category{
		{ID: "w", Label: "Work", Color: "#3b82f6", Routine: &model.Routine{Type: model.RoutineDaily}, Streak: &model.Streak{Count: 2}},
		{ID: "r", Label: "Read", Color: "#fde047"},
	})
	assert.Contains(t, text, "1. <b>Work</b> <code>#3b82f6</code> · daily · 🔥 2")
	assert.Contains(t, text, "2. <b>Read</b> <code>#fde047</code>")
}

func TestUserMessage(t *testing.T) {
	saveErr := &service.SaveError{Op: "log unit", Err: assert.AnError}
	assert.Contains(t, userMessage(saveErr), "Saved locally, will retry")
	assert.True(t, isUserError(saveErr))

	wrapped := fmt.Errorf("log unit %q: %w", "gym", tracker.ErrUnknownCategory)
	assert.Contains(t, userMessage(wrapped), "/categories")

	moved := fmt.Errorf("move category 0 -> 5: %w", tracker.ErrInvalidPosition)
	assert.Contains(t, userMessage(moved), "/categories")
	assert.True(t, isUserError(moved))

	assert.Equal(t, "Something went wrong, please try again.", userMessage(assert.AnError))
	assert.False(t, isUserError(assert.AnError))
}

func TestFormatFocus(t *testing.T) {
	assert.Equal(t, "⏱ Focus running: 12:05 left of 45:00",
		formatFocus(focus.State{Running: true, Remaining: 12*time.Minute + 5*time.Second, Total: 45 * time.Minute}))
	assert.Equal(t, "⏸ Focus paused at 01:00 of 1:30:00",
		formatFocus(focus.State{Paused: true, Remaining: time.Minute, Total: 90 * time.Minute}))
	assert.Equal(t, "⏱ Focus timer ready: 25:00", formatFocus(focus.State{Total: 25 * time.Minute}))
}

func TestDescribeRoutine(t *testing.T) {
	assert.Equal(t, "daily", describeRoutine(&model.Routine{Type: model.RoutineDaily}))
	assert.Equal(t, "weekly: Mon, Thu", describeRoutine(&model.Routine{Type: model.RoutineWeekly, Days: []int{1, 4}}))
	assert.Equal(t, "weekly (no days)", describeRoutine(&model.Routine{Type: model.RoutineWeekly}))
	assert.Equal(t, "no routine", describeRoutine(nil))
}

func TestFormatHistory_OrdersByCategory(t *testing.T) {
	cats := []model.Category{{ID: "b", Label: "Work"}, {ID: "a", Label: "Read"}}
	history := []tracker.DaySummary{
		{Date: "2024-01-09", Counts: map[string]int{"a": 1, "b": 2, "zz": 1}, Total: 4},
		{Date: "2024-01-08", Counts: map[string]int{"a": 1}, Total: 1},
	}
	text := formatHistory(history, cats, 1)
	assert.Contains(t, text, "<b>2024-01-09</b> · 4\n  Work 2, Read 1, deleted 1")
	assert.Contains(t, text, "… and 1 more days")
	assert.NotContains(t, text, "2024-01-08")

	assert.Equal(t, "No past days logged yet.", formatHistory(nil, cats, 0))
}

func TestFormatStats(t *testing.T) {
	stats := service.Stats{
		Categories: []model.Category{{ID: "w", Label: "Work"}},
		Totals:     tracker.Totals{PerCategory: map[string]int{"w": 3}, Grand: 3},
		Series: []tracker.SeriesPoint{
			{Date: "2024-01-09", Counts: map[string]int{"w": 0}},
			{Date: "2024-01-10", Counts: map[string]int{"w": 3}},
		},
	}
	text := formatStats(stats)
	assert.Contains(t, text, "Total units: 3")
	assert.Contains(t, text, "• Work: 3")
	assert.Contains(t, text, "<code>01-10</code> ▇▇▇ 3")
}

func TestLogKeyboard(t *testing.T) {
	kb := logKeyboard([]model.Category{{ID: "abc", Label: "A very long category label that goes on"}})
	require.Len(t, kb.InlineKeyboard, 1)
	row := kb.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "log:abc", *row[0].CallbackData)
	assert.Equal(t, "undo:abc", *row[1].CallbackData)
	assert.Equal(t, "+1 A very long category la…", row[0].Text)
}
