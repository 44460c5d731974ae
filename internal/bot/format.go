package bot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"momentum/internal/focus"
	"momentum/internal/model"
	"momentum/internal/service"
	"momentum/internal/tracker"
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const maxBarWidth = 20

// userMessage turns an error into the text shown in the chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSaveFailed):
		return "⚠️ Saved locally, will retry. Use /sync to save now."
	case errors.Is(err, tracker.ErrUnknownCategory):
		return "I don't know that category. See /categories."
	case errors.Is(err, tracker.ErrEmptyLabel):
		return "A category needs a label."
	case errors.Is(err, tracker.ErrInvalidPosition):
		return "No category at that position. See /categories."
	case errors.Is(err, focus.ErrRunning):
		return "Pause or reset the timer before changing its length."
	case errors.Is(err, focus.ErrInvalidDuration):
		return "Focus length must be a positive number of minutes."
	case errors.Is(err, service.ErrInvalidImport):
		return "That file is not a valid Momentum export: " + escape(err.Error())
	default:
		return "Something went wrong, please try again."
	}
}

func isUserError(err error) bool {
	return errors.Is(err, service.ErrSaveFailed) ||
		errors.Is(err, tracker.ErrUnknownCategory) ||
		errors.Is(err, tracker.ErrEmptyLabel) ||
		errors.Is(err, tracker.ErrInvalidPosition) ||
		errors.Is(err, focus.ErrRunning) ||
		errors.Is(err, focus.ErrInvalidDuration) ||
		errors.Is(err, service.ErrInvalidImport)
}

func formatLogResult(res service.LogResult) string {
	text := fmt.Sprintf("✅ +1 <b>%s</b>. %d today.", escape(res.Category.Label), res.Outcome.Count)
	if res.Category.HasRoutine() {
		text += fmt.Sprintf(" 🔥 %d", res.Outcome.Streak)
	}
	for _, r := range res.Celebrations {
		text += "\n" + formatCelebration(r)
	}
	return text
}

func formatCelebration(r tracker.RoutineStatus) string {
	return fmt.Sprintf("🎉 Routine done: <b>%s</b> · 🔥 %d", escape(r.Label), r.Streak)
}

func formatLogPanel(categories []model.Category, log model.Log, today tracker.Day) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("<b>Log a unit</b> · %s\n", today.Date))
	for _, cat := range categories {
		builder.WriteString(fmt.Sprintf("• %s: %d\n", escape(cat.Label), log.Count(today.Date, cat.ID)))
	}
	return strings.TrimRight(builder.String(), "\n")
}

func logKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("+1 "+shortLabel(cat.Label, 24), cbLogPrefix+cat.ID),
			tgbotapi.NewInlineKeyboardButtonData("−1", cbUndoPrefix+cat.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func focusKeyboard(state focus.State) tgbotapi.InlineKeyboardMarkup {
	primary := tgbotapi.NewInlineKeyboardButtonData("▶️ Start", cbFocusPrefix+"start")
	if state.Running {
		primary = tgbotapi.NewInlineKeyboardButtonData("⏸ Pause", cbFocusPrefix+"pause")
	}
	presets := make([]tgbotapi.InlineKeyboardButton, 0, len(focus.Presets))
	for _, m := range focus.Presets {
		presets = append(presets, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%dm", m), cbFocusPrefix+strconv.Itoa(m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(primary, tgbotapi.NewInlineKeyboardButtonData("⏹ Reset", cbFocusPrefix+"reset")),
		presets,
	)
}

func formatFocus(state focus.State) string {
	switch {
	case state.Running:
		return fmt.Sprintf("⏱ Focus running: %s left of %s", formatClock(state.Remaining), formatClock(state.Total))
	case state.Paused:
		return fmt.Sprintf("⏸ Focus paused at %s of %s", formatClock(state.Remaining), formatClock(state.Total))
	default:
		return fmt.Sprintf("⏱ Focus timer ready: %s", formatClock(state.Total))
	}
}

// formatClock renders a duration as mm:ss, or h:mm:ss from an hour up.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatCategories(categories []model.Category) string {
	if len(categories) == 0 {
		return "No categories yet. Add one with /addcategory."
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for i, cat := range categories {
		builder.WriteString(fmt.Sprintf("%d. <b>%s</b> <code>%s</code>", i+1, escape(cat.Label), escape(cat.Color)))
		if cat.HasRoutine() {
			builder.WriteString(" · " + describeRoutine(cat.Routine))
			if n := cat.StreakCount(); n > 0 {
				builder.WriteString(fmt.Sprintf(" · 🔥 %d", n))
			}
		}
		builder.WriteByte('\n')
	}
	return strings.TrimRight(builder.String(), "\n")
}

func describeRoutine(r *model.Routine) string {
	if r == nil {
		return "no routine"
	}
	switch r.Type {
	case model.RoutineDaily:
		return "daily"
	case model.RoutineWeekly:
		if len(r.Days) == 0 {
			return "weekly (no days)"
		}
		names := make([]string, 0, len(r.Days))
		for _, d := range r.Days {
			if d >= 0 && d <= 6 {
				names = append(names, weekdayNames[d])
			}
		}
		return "weekly: " + strings.Join(names, ", ")
	default:
		return string(r.Type)
	}
}

func formatStats(stats service.Stats) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📊 <b>Stats</b>\nTotal units: %d\n", stats.Totals.Grand))
	for _, cat := range stats.Categories {
		builder.WriteString(fmt.Sprintf("• %s: %d\n", escape(cat.Label), stats.Totals.PerCategory[cat.ID]))
	}
	if len(stats.Series) > 0 {
		builder.WriteString(fmt.Sprintf("\n<b>Last %d days</b>\n", len(stats.Series)))
		for _, point := range stats.Series {
			sum := 0
			for _, n := range point.Counts {
				sum += n
			}
			bar := strings.Repeat("▇", min(sum, maxBarWidth))
			builder.WriteString(fmt.Sprintf("<code>%s</code> %s %d\n", point.Date[5:], bar, sum))
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

func formatHistory(history []tracker.DaySummary, categories []model.Category, limit int) string {
	if len(history) == 0 {
		return "No past days logged yet."
	}
	labels := make(map[string]string, len(categories))
	order := make(map[string]int, len(categories))
	for i, cat := range categories {
		labels[cat.ID] = cat.Label
		order[cat.ID] = i
	}

	var builder strings.Builder
	builder.WriteString("🗓 <b>History</b>\n")
	for i, day := range history {
		if limit > 0 && i >= limit {
			builder.WriteString(fmt.Sprintf("… and %d more days", len(history)-limit))
			break
		}
		ids := make([]string, 0, len(day.Counts))
		for id := range day.Counts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool {
			oa, okA := order[ids[a]]
			ob, okB := order[ids[b]]
			if okA != okB {
				return okA
			}
			if okA {
				return oa < ob
			}
			return ids[a] < ids[b]
		})
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			label, ok := labels[id]
			if !ok {
				label = "deleted"
			}
			parts = append(parts, fmt.Sprintf("%s %d", escape(label), day.Counts[id]))
		}
		builder.WriteString(fmt.Sprintf("<b>%s</b> · %d\n  %s\n", day.Date, day.Total, strings.Join(parts, ", ")))
	}
	return strings.TrimRight(builder.String(), "\n")
}

// parseAddCategoryArgs splits "/addcategory Deep work #22c55e" into label and colour.
func parseAddCategoryArgs(args string) (label, color string) {
	fields := strings.Fields(args)
	if n := len(fields); n > 0 && strings.HasPrefix(fields[n-1], "#") {
		color = fields[n-1]
		fields = fields[:n-1]
	}
	return strings.Join(fields, " "), color
}

// parseEditCategoryArgs splits "/editcategory Deep work | Focus #22c55e" into
// the category reference and its new label and colour. Either may be empty,
// not both.
func parseEditCategoryArgs(args string) (ref, label, color string, err error) {
	before, after, found := strings.Cut(args, "|")
	if !found {
		return "", "", "", errors.New("separate the category from its new name with |")
	}
	ref = strings.Join(strings.Fields(before), " ")
	if ref == "" {
		return "", "", "", errors.New("missing category")
	}
	label, color = parseAddCategoryArgs(after)
	if label == "" && color == "" {
		return "", "", "", errors.New("nothing to change")
	}
	return ref, label, color, nil
}

// parseMoveArgs parses two 1-based positions as shown by /categories and
// returns them 0-based.
func parseMoveArgs(args string) (from, to int, err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, 0, errors.New("expected two positions")
	}
	from, err = strconv.Atoi(fields[0])
	if err != nil || from < 1 {
		return 0, 0, fmt.Errorf("bad position %q", fields[0])
	}
	to, err = strconv.Atoi(fields[1])
	if err != nil || to < 1 {
		return 0, 0, fmt.Errorf("bad position %q", fields[1])
	}
	return from - 1, to - 1, nil
}

// parseRoutineArgs parses "<category> daily", "<category> weekly mon,wed" or
// "<category> off". A nil routine means the routine should be removed.
func parseRoutineArgs(args string) (string, *model.Routine, error) {
	fields := strings.Fields(args)
	for i := len(fields) - 1; i >= 1; i-- {
		keyword := strings.ToLower(fields[i])
		if keyword != "daily" && keyword != "weekly" && keyword != "off" {
			continue
		}
		ref := strings.Join(fields[:i], " ")
		rest := fields[i+1:]
		switch keyword {
		case "off":
			if len(rest) > 0 {
				return "", nil, fmt.Errorf("unexpected %q after off", strings.Join(rest, " "))
			}
			return ref, nil, nil
		case "daily":
			if len(rest) > 0 {
				return "", nil, fmt.Errorf("unexpected %q after daily", strings.Join(rest, " "))
			}
			return ref, &model.Routine{Type: model.RoutineDaily}, nil
		default:
			days, err := parseDays(strings.Join(rest, ","))
			if err != nil {
				return "", nil, err
			}
			if len(days) == 0 {
				return "", nil, errors.New("weekly routines need at least one day")
			}
			return ref, &model.Routine{Type: model.RoutineWeekly, Days: days}, nil
		}
	}
	return "", nil, errors.New("missing category or schedule")
}

// parseDays accepts weekday names (sun, Monday), or indices 0..6 separated by commas.
func parseDays(raw string) ([]int, error) {
	var days []int
	for _, token := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		token = strings.ToLower(strings.TrimSpace(token))
		if n, err := strconv.Atoi(token); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range 0-6", n)
			}
			days = append(days, n)
			continue
		}
		found := false
		if len(token) >= 3 {
			for i, name := range weekdayNames {
				if strings.HasPrefix(token, strings.ToLower(name)) {
					days = append(days, i)
					found = true
					break
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", token)
		}
	}
	return tracker.NormalizeDays(days), nil
}

func shortLabel(label string, maxLen int) string {
	label = strings.TrimSpace(label)
	if utf8.RuneCountInString(label) <= maxLen {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxLen-1]) + "…"
}
