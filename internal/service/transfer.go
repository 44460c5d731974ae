package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"momentum/internal/model"
	"momentum/internal/tracker"
)

// ErrInvalidImport is returned when an imported document is not a valid export.
var ErrInvalidImport = errors.New("invalid import document")

var importValidate = validator.New()

// Export returns the account's data as an indented JSON document.
func (s *TrackerService) Export(ctx context.Context, account int64) ([]byte, error) {
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// Import replaces the account's data with a previously exported document.
func (s *TrackerService) Import(ctx context.Context, account int64, raw []byte) error {
	data, err := DecodeImport(raw)
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, account, "import", func(model.UserData) (model.UserData, error) {
		return data, nil
	})
	return err
}

// DecodeImport parses and validates an export document.
func DecodeImport(raw []byte) (model.UserData, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return model.UserData{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, k := range []string{"settings", "log"} {
		if _, ok := keys[k]; !ok {
			return model.UserData{}, fmt.Errorf("%w: missing %q", ErrInvalidImport, k)
		}
	}

	var data model.UserData
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&data); err != nil {
		return model.UserData{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := importValidate.Struct(data); err != nil {
		return model.UserData{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := validateLog(data.Log); err != nil {
		return model.UserData{}, err
	}

	seen := make(map[string]bool, len(data.Settings.Categories))
	for i, cat := range data.Settings.Categories {
		if seen[cat.ID] {
			return model.UserData{}, fmt.Errorf("%w: duplicate category id %q", ErrInvalidImport, cat.ID)
		}
		seen[cat.ID] = true
		if cat.Routine != nil && cat.Routine.Type == model.RoutineWeekly {
			data.Settings.Categories[i].Routine.Days = tracker.NormalizeDays(cat.Routine.Days)
		}
	}
	data.Log = tracker.PruneLog(data.Log)
	return data.Normalize(), nil
}

func validateLog(log model.Log) error {
	for date, day := range log {
		if err := importValidate.Var(date, "datetime="+tracker.DateLayout); err != nil {
			return fmt.Errorf("%w: log date %q", ErrInvalidImport, date)
		}
		for id, count := range day {
			if id == "" || count < 1 {
				return fmt.Errorf("%w: log entry %s/%q has count %d", ErrInvalidImport, date, id, count)
			}
		}
	}
	return nil
}
