package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"momentum/internal/tracker"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	tracker *TrackerService
}

func NewReminderService(tracker *TrackerService) *ReminderService {
	return &ReminderService{tracker: tracker}
}

// DailySummary renders the routines due on day for a Telegram HTML message.
// It returns an empty string when the account has no routines that day.
func (s *ReminderService) DailySummary(ctx context.Context, account int64, day tracker.Day) (string, error) {
	routines, err := s.tracker.RoutinesOn(ctx, account, day)
	if err != nil {
		return "", err
	}
	if len(routines) == 0 {
		return "", nil
	}

	pending := 0
	for _, r := range routines {
		if r.Status == tracker.StatusPending {
			pending++
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Today's routines</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", day.Date))
	for _, r := range routines {
		builder.WriteString(FormatRoutine(r))
	}
	builder.WriteByte('\n')
	switch pending {
	case 0:
		builder.WriteString("🎉 All done for today.")
	case 1:
		builder.WriteString("⏳ 1 routine still pending.")
	default:
		builder.WriteString(fmt.Sprintf("⏳ %d routines still pending.", pending))
	}
	return builder.String(), nil
}

// FormatRoutine renders one routine status line.
func FormatRoutine(r tracker.RoutineStatus) string {
	icon := "⬜"
	if r.Status == tracker.StatusCompleted {
		icon = "✅"
	}
	line := fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(r.Label)))
	if r.Streak > 0 {
		line += fmt.Sprintf(" · 🔥 %d", r.Streak)
	}
	return line + "\n"
}
