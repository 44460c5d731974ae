package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"momentum/internal/service"
	"momentum/internal/tracker"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	stylePending = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
)

// chip renders a label on its category colour with readable text.
func chip(label, color string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(tracker.TextColorFor(color))).
		Padding(0, 1).
		Render(label)
}

func renderRoutines(date string, routines []tracker.RoutineStatus) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Routines for "+date) + "\n")
	if len(routines) == 0 {
		b.WriteString(styleMuted.Render("nothing scheduled today"))
		return b.String()
	}
	for _, r := range routines {
		status := stylePending.Render("pending  ")
		if r.Status == tracker.StatusCompleted {
			status = styleDone.Render("completed")
		}
		line := fmt.Sprintf("%s %s", status, chip(r.Label, r.Color))
		if r.Streak > 0 {
			line += fmt.Sprintf(" 🔥 %d", r.Streak)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStats(stats service.Stats) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Total units: %d", stats.Totals.Grand)) + "\n")
	for _, cat := range stats.Categories {
		b.WriteString(fmt.Sprintf("%s %d\n", chip(cat.Label, cat.Color), stats.Totals.PerCategory[cat.ID]))
	}
	if len(stats.Series) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString("\n" + styleTitle.Render(fmt.Sprintf("Last %d days", len(stats.Series))) + "\n")
	for _, point := range stats.Series {
		b.WriteString(styleMuted.Render(point.Date) + " ")
		for _, cat := range stats.Categories {
			if n := point.Counts[cat.ID]; n > 0 {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render(strings.Repeat("█", n)))
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
