package service

import (
	"context"
	"errors"

	"momentum/internal/focus"
	"momentum/internal/metrics"
	"momentum/internal/model"
)

// FocusState returns the focus timer at the current instant.
func (s *TrackerService) FocusState(ctx context.Context, account int64) (focus.State, error) {
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return focus.State{}, err
	}
	return focus.Current(data, s.clock.Now()), nil
}

func (s *TrackerService) FocusStart(ctx context.Context, account int64) (focus.State, error) {
	return s.focusOp(ctx, account, "focus start", func(data model.UserData) (model.UserData, error) {
		return focus.Start(data, s.clock.Now()), nil
	})
}

func (s *TrackerService) FocusPause(ctx context.Context, account int64) (focus.State, error) {
	return s.focusOp(ctx, account, "focus pause", func(data model.UserData) (model.UserData, error) {
		return focus.Pause(data, s.clock.Now()), nil
	})
}

func (s *TrackerService) FocusReset(ctx context.Context, account int64) (focus.State, error) {
	return s.focusOp(ctx, account, "focus reset", func(data model.UserData) (model.UserData, error) {
		return focus.Reset(data), nil
	})
}

func (s *TrackerService) FocusSetDuration(ctx context.Context, account int64, minutes int) (focus.State, error) {
	return s.focusOp(ctx, account, "focus duration", func(data model.UserData) (model.UserData, error) {
		return focus.SetDuration(data, minutes, s.clock.Now())
	})
}

// FinishExpiredFocus clears a focus session that has run out and reports whether it did.
func (s *TrackerService) FinishExpiredFocus(ctx context.Context, account int64) (bool, error) {
	now := s.clock.Now()
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return false, err
	}
	if !focus.Expired(data, now) {
		return false, nil
	}
	finished := false
	_, err = s.mutate(ctx, account, "focus finish", func(data model.UserData) (model.UserData, error) {
		if !focus.Expired(data, now) {
			return data, nil
		}
		finished = true
		return focus.Reset(data), nil
	})
	if finished {
		metrics.FocusSessionsFinished.Inc()
	}
	return finished, err
}

func (s *TrackerService) focusOp(ctx context.Context, account int64, op string, fn func(model.UserData) (model.UserData, error)) (focus.State, error) {
	next, err := s.mutate(ctx, account, op, fn)
	if err != nil && !errors.Is(err, ErrSaveFailed) {
		return focus.State{}, err
	}
	return focus.Current(next, s.clock.Now()), err
}
