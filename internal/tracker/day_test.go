package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDay_UsesLocalCalendarDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 23:30 UTC on Jan 9 is already Jan 10 in Tokyo.
	instant := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC).In(tokyo)

	day := NewDay(instant)
	assert.Equal(t, "2024-01-10", day.Date)
	assert.Equal(t, "2024-01-09", day.Yesterday)
	assert.Equal(t, time.Wednesday, day.Weekday)
}

func TestParseDay_LeapYearAndMonthBoundaries(t *testing.T) {
	tests := []struct {
		in        string
		yesterday string
	}{
		{"2024-03-01", "2024-02-29"},
		{"2023-03-01", "2023-02-28"},
		{"2025-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		day, err := ParseDay(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.yesterday, day.Yesterday, tt.in)
	}
}

func TestParseDay_Invalid(t *testing.T) {
	_, err := ParseDay("2024-13-01")
	assert.Error(t, err)
	_, err = ParseDay("yesterday")
	assert.Error(t, err)
}

func TestDay_AddDays(t *testing.T) {
	day, err := ParseDay("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", day.AddDays(2).Date)
	assert.Equal(t, "2024-02-21", day.AddDays(-7).Date)
}
