package service

import (
	"context"
	"fmt"

	"momentum/internal/model"
	"momentum/internal/tracker"
)

// AddCategory creates a category at the end of the list.
func (s *TrackerService) AddCategory(ctx context.Context, account int64, label, color string) (model.Category, error) {
	var created model.Category
	_, err := s.mutate(ctx, account, "add category", func(data model.UserData) (model.UserData, error) {
		next, cat, err := tracker.AddCategory(data, label, color)
		created = cat
		return next, err
	})
	return created, err
}

// UpdateCategory changes a category's label and/or colour.
func (s *TrackerService) UpdateCategory(ctx context.Context, account int64, ref, label, color string) error {
	return s.withCategory(ctx, account, "update category", ref, func(data model.UserData, id string) (model.UserData, error) {
		return tracker.UpdateCategory(data, id, label, color)
	})
}

// DeleteCategory removes a category together with its log entries.
func (s *TrackerService) DeleteCategory(ctx context.Context, account int64, ref string) error {
	return s.withCategory(ctx, account, "delete category", ref, tracker.DeleteCategory)
}

// MoveCategory reorders the category list.
func (s *TrackerService) MoveCategory(ctx context.Context, account int64, from, to int) error {
	_, err := s.mutate(ctx, account, "move category", func(data model.UserData) (model.UserData, error) {
		return tracker.MoveCategory(data, from, to)
	})
	return err
}

// SetRoutine attaches a routine to a category.
func (s *TrackerService) SetRoutine(ctx context.Context, account int64, ref string, routine model.Routine) error {
	return s.withCategory(ctx, account, "set routine", ref, func(data model.UserData, id string) (model.UserData, error) {
		return tracker.SetRoutine(data, id, routine)
	})
}

// RemoveRoutine detaches the routine of a category.
func (s *TrackerService) RemoveRoutine(ctx context.Context, account int64, ref string) error {
	return s.withCategory(ctx, account, "remove routine", ref, tracker.RemoveRoutine)
}

func (s *TrackerService) withCategory(ctx context.Context, account int64, op, ref string, fn func(model.UserData, string) (model.UserData, error)) error {
	_, err := s.mutate(ctx, account, op, func(data model.UserData) (model.UserData, error) {
		cat, ok := tracker.FindCategory(data.Settings.Categories, ref)
		if !ok {
			return data, fmt.Errorf("%s %q: %w", op, ref, tracker.ErrUnknownCategory)
		}
		return fn(data, cat.ID)
	})
	return err
}
