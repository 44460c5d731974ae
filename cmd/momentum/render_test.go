package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"momentum/internal/model"
	"momentum/internal/service"
	"momentum/internal/tracker"
)

func TestRenderRoutines(t *testing.T) {
	out := renderRoutines("2024-01-10", []tracker.RoutineStatus{
		{ID: "work", Label: "Work", Color: "#3b82f6", Status: tracker.StatusCompleted, Streak: 4},
		{ID: "gym", Label: "Gym", Color: "#fde047", Status: tracker.StatusPending},
	})
	assert.Contains(t, out, "Routines for 2024-01-10")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "🔥 4")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "Gym")

	assert.Contains(t, renderRoutines("2024-01-10", nil), "nothing scheduled today")
}

func TestRenderStats(t *testing.T) {
	out := renderStats(service.Stats{
		Categories: []model.Category{{ID: "w", Label: "Work", Color: "#3b82f6"}},
		Totals:     tracker.Totals{PerCategory: map[string]int{"w": 3}, Grand: 3},
		Series:     []tracker.SeriesPoint{{Date: "2024-01-10", Counts: map[string]int{"w": 3}}},
	})
	assert.Contains(t, out, "Total units: 3")
	assert.Contains(t, out, "Last 1 days")
	assert.Contains(t, out, "2024-01-10")
	assert.Contains(t, out, "███")
}
