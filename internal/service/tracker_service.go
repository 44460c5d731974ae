package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"momentum/internal/clock"
	"momentum/internal/metrics"
	"momentum/internal/model"
	"momentum/internal/tracker"
)

// ErrSaveFailed marks errors where the next state was computed and kept in
// memory but could not be written to the store. Such errors are retryable via Flush.
var ErrSaveFailed = errors.New("save failed")

// SaveError carries the operation whose write failed.
type SaveError struct {
	Op  string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s: changes kept locally, save failed: %v", e.Op, e.Err)
}

func (e *SaveError) Unwrap() []error {
	return []error{ErrSaveFailed, e.Err}
}

// Store is the persistence collaborator: one whole document per account.
type Store interface {
	Load(ctx context.Context, account int64) (*model.UserData, error)
	Save(ctx context.Context, account int64, data model.UserData) error
}

type accountState struct {
	mu    sync.Mutex
	data  *model.UserData
	dirty bool
}

// TrackerService applies tracker actions to account snapshots and persists them.
// Every mutation writes the full next state exactly once; concurrent writers
// in other processes follow last-write-wins.
type TrackerService struct {
	store Store
	clock clock.Clock
	log   *zap.Logger

	mu       sync.Mutex
	accounts map[int64]*accountState
}

func NewTrackerService(store Store, clk clock.Clock, log *zap.Logger) *TrackerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrackerService{
		store:    store,
		clock:    clk,
		log:      log,
		accounts: make(map[int64]*accountState),
	}
}

// LogResult is returned by LogUnit.
type LogResult struct {
	Category     model.Category
	Outcome      tracker.LogOutcome
	Celebrations []tracker.RoutineStatus
}

// Stats aggregates the statistics view.
type Stats struct {
	Categories []model.Category      `json:"categories"`
	Totals     tracker.Totals        `json:"totals"`
	Series     []tracker.SeriesPoint `json:"series"`
}

// Today returns the calendar day according to the service clock.
func (s *TrackerService) Today() tracker.Day {
	return clock.Today(s.clock)
}

// Snapshot returns a copy of the account's current data.
func (s *TrackerService) Snapshot(ctx context.Context, account int64) (model.UserData, error) {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	data, err := s.load(ctx, account, st)
	if err != nil {
		return model.UserData{}, err
	}
	return data.Clone(), nil
}

// TodaysRoutines projects the routines due today.
func (s *TrackerService) TodaysRoutines(ctx context.Context, account int64) ([]tracker.RoutineStatus, error) {
	return s.RoutinesOn(ctx, account, s.Today())
}

// RoutinesOn projects the routines due on day.
func (s *TrackerService) RoutinesOn(ctx context.Context, account int64, day tracker.Day) ([]tracker.RoutineStatus, error) {
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return nil, err
	}
	return tracker.TodaysRoutines(data.Settings.Categories, data.Log, day), nil
}

// LogUnit logs one unit for the category referenced by id or label.
// On a save failure the result is still returned together with a *SaveError.
func (s *TrackerService) LogUnit(ctx context.Context, account int64, ref string) (LogResult, error) {
	today := s.Today()
	var res LogResult
	_, err := s.mutate(ctx, account, "log unit", func(data model.UserData) (model.UserData, error) {
		cat, ok := tracker.FindCategory(data.Settings.Categories, ref)
		if !ok {
			return data, fmt.Errorf("log unit %q: %w", ref, tracker.ErrUnknownCategory)
		}
		before := tracker.TodaysRoutines(data.Settings.Categories, data.Log, today)
		next, outcome, err := tracker.LogUnit(data, cat.ID, today)
		if err != nil {
			return data, err
		}
		after := tracker.TodaysRoutines(next.Settings.Categories, next.Log, today)
		res = LogResult{
			Category:     next.Settings.Categories[next.CategoryIndex(cat.ID)],
			Outcome:      outcome,
			Celebrations: tracker.Celebrations(before, after),
		}
		return next, nil
	})
	if err != nil && !errors.Is(err, ErrSaveFailed) {
		return LogResult{}, err
	}

	metrics.UnitsLogged.Inc()
	if res.Outcome.StreakAdvanced {
		metrics.StreaksAdvanced.Inc()
		metrics.StreakLength.Observe(float64(res.Outcome.Streak))
	}
	s.log.Debug("unit logged",
		zap.Int64("account", account),
		zap.String("category", res.Category.ID),
		zap.Int("count", res.Outcome.Count),
		zap.Bool("streak_advanced", res.Outcome.StreakAdvanced))
	return res, err
}

// RemoveUnit takes back one unit logged today.
func (s *TrackerService) RemoveUnit(ctx context.Context, account int64, ref string) (tracker.LogOutcome, error) {
	today := s.Today()
	var outcome tracker.LogOutcome
	_, err := s.mutate(ctx, account, "remove unit", func(data model.UserData) (model.UserData, error) {
		cat, ok := tracker.FindCategory(data.Settings.Categories, ref)
		if !ok {
			return data, fmt.Errorf("remove unit %q: %w", ref, tracker.ErrUnknownCategory)
		}
		next, out, err := tracker.RemoveLoggedUnit(data, cat.ID, today)
		outcome = out
		return next, err
	})
	if err == nil || errors.Is(err, ErrSaveFailed) {
		metrics.UnitsRemoved.Inc()
	}
	return outcome, err
}

// EditDay replaces the counts logged on date.
func (s *TrackerService) EditDay(ctx context.Context, account int64, date string, counts map[string]int) error {
	_, err := s.mutate(ctx, account, "edit day", func(data model.UserData) (model.UserData, error) {
		return tracker.EditDay(data, date, counts)
	})
	return err
}

// Stats returns totals and a chart series covering the last days days.
func (s *TrackerService) Stats(ctx context.Context, account int64, days int) (Stats, error) {
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Categories: data.Settings.Categories,
		Totals:     tracker.ComputeTotals(data.Log),
		Series:     tracker.Series(data.Log, data.Settings.Categories, s.Today(), days),
	}, nil
}

// History lists past days, newest first.
func (s *TrackerService) History(ctx context.Context, account int64) ([]tracker.DaySummary, error) {
	data, err := s.Snapshot(ctx, account)
	if err != nil {
		return nil, err
	}
	return tracker.History(data.Log, s.Today()), nil
}

// Flush retries writing a snapshot whose previous save failed.
func (s *TrackerService) Flush(ctx context.Context, account int64) error {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.dirty || st.data == nil {
		return nil
	}
	if err := s.store.Save(ctx, account, *st.data); err != nil {
		metrics.SaveFailures.WithLabelValues("flush").Inc()
		return &SaveError{Op: "flush", Err: err}
	}
	st.dirty = false
	return nil
}

// FlushAll retries every account with unsaved changes and returns the joined errors.
func (s *TrackerService) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	accounts := make([]int64, 0, len(s.accounts))
	for account := range s.accounts {
		accounts = append(accounts, account)
	}
	s.mu.Unlock()

	var errs []error
	for _, account := range accounts {
		if err := s.Flush(ctx, account); err != nil {
			errs = append(errs, fmt.Errorf("account %d: %w", account, err))
		}
	}
	return errors.Join(errs...)
}

// Pending reports whether the account has changes that were not saved.
func (s *TrackerService) Pending(account int64) bool {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dirty
}

// Forget drops the cached snapshot so the next read goes to the store.
// Unsaved changes are kept.
func (s *TrackerService) Forget(account int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.accounts[account]
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.dirty {
		delete(s.accounts, account)
	}
}

// Sync saves pending changes and then drops the cached snapshot, so writes
// made by other processes (CLI import, another instance) are picked up on
// the next read.
func (s *TrackerService) Sync(ctx context.Context, account int64) error {
	if err := s.Flush(ctx, account); err != nil {
		return err
	}
	s.Forget(account)
	return nil
}

func (s *TrackerService) state(account int64) *accountState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.accounts[account]
	if !ok {
		st = &accountState{}
		s.accounts[account] = st
	}
	return st
}

// load must be called with st.mu held.
func (s *TrackerService) load(ctx context.Context, account int64, st *accountState) (model.UserData, error) {
	if st.data != nil {
		return *st.data, nil
	}
	stored, err := s.store.Load(ctx, account)
	if err != nil {
		return model.UserData{}, fmt.Errorf("load account %d: %w", account, err)
	}
	data := model.EmptyUserData()
	if stored != nil {
		data = stored.Normalize()
	}
	st.data = &data
	return data, nil
}

// mutate computes the next state with fn, keeps it as the local snapshot and saves it once.
func (s *TrackerService) mutate(ctx context.Context, account int64, op string, fn func(model.UserData) (model.UserData, error)) (model.UserData, error) {
	st := s.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := s.load(ctx, account, st)
	if err != nil {
		return model.UserData{}, err
	}
	next, err := fn(data.Clone())
	if err != nil {
		return data, err
	}
	st.data = &next
	st.dirty = true

	if err := s.store.Save(ctx, account, next); err != nil {
		metrics.SaveFailures.WithLabelValues(op).Inc()
		s.log.Warn("save failed, keeping local state",
			zap.Int64("account", account),
			zap.String("op", op),
			zap.Error(err))
		return next, &SaveError{Op: op, Err: err}
	}
	st.dirty = false
	return next, nil
}
