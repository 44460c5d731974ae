package tracker

import (
	"sort"

	"momentum/internal/model"
)

// Totals sums logged units per category and overall.
type Totals struct {
	PerCategory map[string]int `json:"perCategory"`
	Grand       int            `json:"grand"`
}

// DaySummary is one past day of the log.
type DaySummary struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// SeriesPoint is one day of chart data with every category zero-filled.
type SeriesPoint struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

// AddUnit returns a copy of log with one more unit for categoryID on date.
func AddUnit(log model.Log, date, categoryID string) model.Log {
	out := log.Clone()
	day, ok := out[date]
	if !ok {
		day = make(map[string]int)
		out[date] = day
	}
	day[categoryID]++
	return out
}

// RemoveUnit returns a copy of log with one unit less for categoryID on date.
// Zero counts and empty days are pruned. Missing entries are a no-op.
func RemoveUnit(log model.Log, date, categoryID string) model.Log {
	out := log.Clone()
	day, ok := out[date]
	if !ok {
		return out
	}
	if _, ok := day[categoryID]; !ok {
		return out
	}
	day[categoryID]--
	if day[categoryID] <= 0 {
		delete(day, categoryID)
	}
	if len(day) == 0 {
		delete(out, date)
	}
	return out
}

// SetDay replaces the counts of a whole day. Non-positive counts are dropped,
// and a day left with no counts is removed.
func SetDay(log model.Log, date string, counts map[string]int) model.Log {
	out := log.Clone()
	day := make(map[string]int, len(counts))
	for id, count := range counts {
		if count > 0 {
			day[id] = count
		}
	}
	if len(day) == 0 {
		delete(out, date)
		return out
	}
	out[date] = day
	return out
}

// PruneLog removes days that hold no counts.
func PruneLog(log model.Log) model.Log {
	out := log.Clone()
	for date, day := range out {
		if len(day) == 0 {
			delete(out, date)
		}
	}
	return out
}

// DropCategory removes every entry of a category from the log.
func DropCategory(log model.Log, categoryID string) model.Log {
	out := log.Clone()
	for date, day := range out {
		delete(day, categoryID)
		if len(day) == 0 {
			delete(out, date)
		}
	}
	return out
}

// ComputeTotals sums counts for every category across all dates.
func ComputeTotals(log model.Log) Totals {
	totals := Totals{PerCategory: make(map[string]int)}
	for _, day := range log {
		for id, count := range day {
			totals.PerCategory[id] += count
			totals.Grand += count
		}
	}
	return totals
}

// IsCompletedOn reports whether at least one unit was logged for categoryID on date.
func IsCompletedOn(log model.Log, date, categoryID string) bool {
	return log.Count(date, categoryID) > 0
}

// History lists past days newest first, skipping today and days with no units.
func History(log model.Log, today Day) []DaySummary {
	out := make([]DaySummary, 0, len(log))
	for date, day := range log {
		if date == today.Date {
			continue
		}
		summary := DaySummary{Date: date, Counts: make(map[string]int, len(day))}
		for id, count := range day {
			summary.Counts[id] = count
			summary.Total += count
		}
		if summary.Total == 0 {
			continue
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Series returns the last days days up to and including today, oldest first.
// Log entries for unknown categories are ignored.
func Series(log model.Log, categories []model.Category, today Day, days int) []SeriesPoint {
	if days <= 0 {
		return nil
	}
	out := make([]SeriesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		point := SeriesPoint{Date: d.Date, Counts: make(map[string]int, len(categories))}
		for _, cat := range categories {
			point.Counts[cat.ID] = log.Count(d.Date, cat.ID)
		}
		out = append(out, point)
	}
	return out
}
