package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"momentum/internal/model"
)

// ErrEmptyLabel is returned when a category would end up without a label.
var ErrEmptyLabel = errors.New("category label is required")

// ErrInvalidPosition is returned when a reorder names a position outside the list.
var ErrInvalidPosition = errors.New("category position out of range")

// DefaultColor is used when a new category is created without one.
const DefaultColor = "#3b82f6"

// Palette is the set of colours offered for categories.
var Palette = map[string][]string{
	"Vibrant": {"#ef4444", "#f97316", "#eab308", "#22c55e", "#3b82f6", "#8b5cf6", "#ec4899"},
	"Pastel":  {"#fca5a5", "#fdba74", "#fde047", "#86efac", "#93c5fd", "#c4b5fd", "#f9a8d4"},
}

// AddCategory appends a new category with a fresh id.
func AddCategory(data model.UserData, label, color string) (model.UserData, model.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return data, model.Category{}, ErrEmptyLabel
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultColor
	}
	cat := model.Category{ID: uuid.NewString(), Label: label, Color: color}
	next := data.Clone()
	next.Settings.Categories = append(next.Settings.Categories, cat)
	return next, cat, nil
}

// UpdateCategory changes label and/or colour; empty arguments keep the current value.
func UpdateCategory(data model.UserData, id, label, color string) (model.UserData, error) {
	idx := data.CategoryIndex(id)
	if idx < 0 {
		return data, fmt.Errorf("update category %q: %w", id, ErrUnknownCategory)
	}
	next := data.Clone()
	cat := &next.Settings.Categories[idx]
	if l := strings.TrimSpace(label); l != "" {
		cat.Label = l
	}
	if c := strings.TrimSpace(color); c != "" {
		cat.Color = c
	}
	return next, nil
}

// DeleteCategory removes a category and its log entries.
func DeleteCategory(data model.UserData, id string) (model.UserData, error) {
	idx := data.CategoryIndex(id)
	if idx < 0 {
		return data, fmt.Errorf("delete category %q: %w", id, ErrUnknownCategory)
	}
	next := data.Clone()
	next.Settings.Categories = append(next.Settings.Categories[:idx], next.Settings.Categories[idx+1:]...)
	next.Log = DropCategory(next.Log, id)
	return next, nil
}

// MoveCategory moves the category at from to position to.
func MoveCategory(data model.UserData, from, to int) (model.UserData, error) {
	n := len(data.Settings.Categories)
	if from < 0 || from >= n || to < 0 || to >= n {
		return data, fmt.Errorf("move category %d -> %d: %w", from, to, ErrInvalidPosition)
	}
	next := data.Clone()
	cats := next.Settings.Categories
	moved := cats[from]
	cats = append(cats[:from], cats[from+1:]...)
	cats = append(cats[:to], append([]model.Category{moved}, cats[to:]...)...)
	next.Settings.Categories = cats
	return next, nil
}

// SetRoutine attaches or replaces the routine of a category.
func SetRoutine(data model.UserData, id string, routine model.Routine) (model.UserData, error) {
	idx := data.CategoryIndex(id)
	if idx < 0 {
		return data, fmt.Errorf("set routine %q: %w", id, ErrUnknownCategory)
	}
	switch routine.Type {
	case model.RoutineDaily:
		routine.Days = nil
	case model.RoutineWeekly:
		routine.Days = NormalizeDays(routine.Days)
	default:
		return data, fmt.Errorf("set routine %q: unsupported type %q", id, routine.Type)
	}
	next := data.Clone()
	next.Settings.Categories[idx].Routine = &routine
	return next, nil
}

// RemoveRoutine stops tracking a category as a routine and clears its streak.
func RemoveRoutine(data model.UserData, id string) (model.UserData, error) {
	idx := data.CategoryIndex(id)
	if idx < 0 {
		return data, fmt.Errorf("remove routine %q: %w", id, ErrUnknownCategory)
	}
	next := data.Clone()
	next.Settings.Categories[idx].Routine = nil
	next.Settings.Categories[idx].Streak = nil
	return next, nil
}

// FindCategory looks a category up by id or, case-insensitively, by label.
func FindCategory(categories []model.Category, ref string) (model.Category, bool) {
	ref = strings.TrimSpace(ref)
	for _, cat := range categories {
		if cat.ID == ref {
			return cat, true
		}
	}
	for _, cat := range categories {
		if strings.EqualFold(strings.TrimSpace(cat.Label), ref) {
			return cat, true
		}
	}
	return model.Category{}, false
}
