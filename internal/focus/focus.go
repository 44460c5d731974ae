// Package focus implements the persisted focus timer.
package focus

import (
	"errors"
	"time"

	"momentum/internal/model"
)

var (
	// ErrRunning is returned when the duration is changed while a session runs.
	ErrRunning = errors.New("focus session is running")
	// ErrInvalidDuration is returned for non-positive durations.
	ErrInvalidDuration = errors.New("focus duration must be positive")
)

// Presets are the durations, in minutes, offered as shortcuts.
var Presets = []int{25, 45, 60, 90}

// State is a read-only view of the timer at an instant.
type State struct {
	Running   bool
	Paused    bool
	Remaining time.Duration
	Total     time.Duration
}

// Total returns the configured session length.
func Total(data model.UserData) time.Duration {
	minutes := data.Settings.FocusDuration
	if minutes <= 0 {
		minutes = model.DefaultFocusDuration
	}
	return time.Duration(minutes) * time.Minute
}

// Current returns the timer state at now.
func Current(data model.UserData, now time.Time) State {
	total := Total(data)
	s := data.Settings.FocusSession
	switch {
	case s != nil && s.IsActive && s.EndTime != nil:
		remaining := s.EndTime.Sub(now).Truncate(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return State{Running: remaining > 0, Remaining: remaining, Total: total}
	case s != nil && !s.IsActive && s.RemainingOnPause != nil:
		return State{Paused: true, Remaining: time.Duration(*s.RemainingOnPause) * time.Second, Total: total}
	default:
		return State{Remaining: total, Total: total}
	}
}

// SetDuration changes the session length in minutes.
func SetDuration(data model.UserData, minutes int, now time.Time) (model.UserData, error) {
	if minutes <= 0 {
		return data, ErrInvalidDuration
	}
	if Current(data, now).Running {
		return data, ErrRunning
	}
	next := data.Clone()
	next.Settings.FocusDuration = minutes
	next.Settings.FocusSession = nil
	return next, nil
}

// Start runs the timer from its current remaining time (a paused session resumes).
func Start(data model.UserData, now time.Time) model.UserData {
	state := Current(data, now)
	if state.Running {
		return data
	}
	remaining := state.Remaining
	if remaining <= 0 {
		remaining = state.Total
	}
	end := now.Add(remaining)
	next := data.Clone()
	next.Settings.FocusSession = &model.FocusSession{IsActive: true, EndTime: &end}
	return next
}

// Pause freezes a running timer.
func Pause(data model.UserData, now time.Time) model.UserData {
	state := Current(data, now)
	if !state.Running {
		return data
	}
	seconds := int(state.Remaining / time.Second)
	next := data.Clone()
	next.Settings.FocusSession = &model.FocusSession{IsActive: false, RemainingOnPause: &seconds}
	return next
}

// Reset clears any running or paused session.
func Reset(data model.UserData) model.UserData {
	next := data.Clone()
	next.Settings.FocusSession = nil
	return next
}

// Expired reports whether an active session has run out at now.
func Expired(data model.UserData, now time.Time) bool {
	s := data.Settings.FocusSession
	return s != nil && s.IsActive && s.EndTime != nil && !now.Before(*s.EndTime)
}
