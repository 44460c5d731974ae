package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"momentum/internal/clock"
	"momentum/internal/model"
)

var errStoreDown = errors.New("store down")

// memoryStore is an in-memory Store that can be told to fail writes.
type memoryStore struct {
	mu       sync.Mutex
	docs     map[int64]model.UserData
	saves    int
	failSave bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[int64]model.UserData)}
}

func (m *memoryStore) Load(_ context.Context, account int64) (*model.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[account]
	if !ok {
		return nil, nil
	}
	clone := data.Clone()
	return &clone, nil
}

func (m *memoryStore) Save(_ context.Context, account int64, data model.UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errStoreDown
	}
	m.saves++
	m.docs[account] = data.Clone()
	return nil
}

func (m *memoryStore) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = fail
}

func (m *memoryStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memoryStore) doc(account int64) model.UserData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[account].Clone()
}

func fixedClock(date string) clock.Clock {
	t, err := time.Parse("2006-01-02 15:04", date+" 10:00")
	if err != nil {
		panic(err)
	}
	return clock.Fixed(t)
}

func seededStore(t *testing.T, account int64) *memoryStore {
	t.Helper()
	store := newMemoryStore()
	data := model.EmptyUserData()
	data.Settings.Categories = []model.Category{
		{
			ID:      "work",
			Label:   "Work",
			Color:   "#3b82f6",
			Routine: &model.Routine{Type: model.RoutineDaily},
			Streak:  &model.Streak{Count: 3, LastCompleted: "2024-01-09"},
		},
		{ID: "read", Label: "Read", Color: "#fde047"},
	}
	store.docs[account] = data
	return store
}
