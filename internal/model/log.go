package model

// Log maps a calendar date (YYYY-MM-DD) to per-category unit counts.
// Counts are always >= 1; empty days are removed rather than stored.
type Log map[string]map[string]int

// Clone returns a deep copy of the log.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	for date, day := range l {
		copied := make(map[string]int, len(day))
		for id, count := range day {
			copied[id] = count
		}
		out[date] = copied
	}
	return out
}

// Count returns the number of units logged for a category on a date.
func (l Log) Count(date, categoryID string) int {
	day, ok := l[date]
	if !ok {
		return 0
	}
	return day[categoryID]
}
