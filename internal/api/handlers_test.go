package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/clock"
	"momentum/internal/model"
	"momentum/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const seedDoc = `{
  "settings": {
    "focusDuration": 45,
    "categories": [
      {"id": "work", "label": "Work", "color": "#3b82f6",
       "routine": {"type": "daily"}, "streak": {"count": 3, "lastCompleted": "2024-01-09"}},
      {"id": "read", "label": "Read", "color": "#fde047"}
    ]
  },
  "log": {"2024-01-08": {"read": 2}}
}`

type mapStore struct {
	mu   sync.Mutex
	docs map[int64]model.UserData
	fail bool
}

func (m *mapStore) Load(_ context.Context, account int64) (*model.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[account]
	if !ok {
		return nil, nil
	}
	clone := data.Clone()
	return &clone, nil
}

func (m *mapStore) Save(_ context.Context, account int64, data model.UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.docs[account] = data.Clone()
	return nil
}

func setupTestServer(t *testing.T) (*mapStore, http.Handler) {
	t.Helper()
	store := &mapStore{docs: make(map[int64]model.UserData)}
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	tracker := service.NewTrackerService(store, clock.Fixed(now), nil)
	srv := NewServer(":0", tracker, nil)

	w := do(t, srv.Handler(), http.MethodPut, "/api/v1/accounts/7/import", seedDoc)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	return store, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	_, h := setupTestServer(t)

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "momentum_units_logged_total")
}

func TestLogUnit_AdvancesStreakOnce(t *testing.T) {
	store, h := setupTestServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/accounts/7/routines/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2024-01-10","routines":[{"id":"work","label":"Work","color":"#3b82f6","status":"pending","streak":3}]}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/accounts/7/log/work", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 4, resp.Streak)
	assert.True(t, resp.Advanced)
	require.Len(t, resp.Celebrations, 1)
	require.Len(t, resp.Routines, 1)
	assert.Equal(t, "completed", string(resp.Routines[0].Status))

	w = do(t, h, http.MethodPost, "/api/v1/accounts/7/log/Work", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = LogResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 4, resp.Streak)
	assert.False(t, resp.Advanced)

	assert.Equal(t, 2, store.docs[7].Log.Count("2024-01-10", "work"))
}

func TestLogUnit_Errors(t *testing.T) {
	_, h := setupTestServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/accounts/7/log/gym", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/accounts/abc/log/work", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveFailure(t *testing.T) {
	store, h := setupTestServer(t)
	store.mu.Lock()
	store.fail = true
	store.mu.Unlock()

	w := do(t, h, http.MethodPost, "/api/v1/accounts/7/log/work", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/accounts/7/import", seedDoc)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.True(t, errResp.Retryable)
}

func TestImport_Invalid(t *testing.T) {
	_, h := setupTestServer(t)
	w := do(t, h, http.MethodPut, "/api/v1/accounts/7/import", `{"settings":{"categories":[]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditDayAndHistory(t *testing.T) {
	_, h := setupTestServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/accounts/7/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"days":[{"date":"2024-01-08","counts":{"read":2},"total":2}]}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/api/v1/accounts/7/days/2024-01-08", `{"counts":{"read":0,"work":1}}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/accounts/7/history", "")
	assert.JSONEq(t, `{"days":[{"date":"2024-01-08","counts":{"work":1},"total":1}]}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/api/v1/accounts/7/days/yesterday", `{"counts":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	_, h := setupTestServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/accounts/7/stats?days=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Totals.Grand)
	require.Len(t, stats.Series, 3)
	assert.Equal(t, "2024-01-08", stats.Series[0].Date)
	assert.Equal(t, 2, stats.Series[0].Counts["read"])

	w = do(t, h, http.MethodGet, "/api/v1/accounts/7/stats?days=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	_, h := setupTestServer(t)
	w := do(t, h, http.MethodGet, "/api/v1/accounts/7/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "momentum-export.json")

	var doc model.UserData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Len(t, doc.Settings.Categories, 2)
}

func TestFocus(t *testing.T) {
	_, h := setupTestServer(t)
	w := do(t, h, http.MethodGet, "/api/v1/accounts/7/focus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"running":false,"paused":false,"remainingSeconds":2700,"totalSeconds":2700,"presets":[25,45,60,90]}`, w.Body.String())
}

func TestUpdateCategory(t *testing.T) {
	store, h := setupTestServer(t)

	w := do(t, h, http.MethodPatch, "/api/v1/accounts/7/categories/Read", `{"label":"Reading","color":"#22c55e"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cats := store.docs[7].Settings.Categories
	assert.Equal(t, "Reading", cats[1].Label)
	assert.Equal(t, "#22c55e", cats[1].Color)

	w = do(t, h, http.MethodPatch, "/api/v1/accounts/7/categories/work", `{"color":"#ef4444"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Work", store.docs[7].Settings.Categories[0].Label)

	w = do(t, h, http.MethodPatch, "/api/v1/accounts/7/categories/gym", `{"label":"Gym"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/api/v1/accounts/7/categories/work", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPatch, "/api/v1/accounts/7/categories/work", `{"color":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveCategory(t *testing.T) {
	store, h := setupTestServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/accounts/7/categories/move", `{"from":1,"to":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Categories []model.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "read", body.Categories[0].ID)
	assert.Equal(t, "read", store.docs[7].Settings.Categories[0].ID)

	w = do(t, h, http.MethodPost, "/api/v1/accounts/7/categories/move", `{"from":0,"to":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/accounts/7/categories/move", `{"to":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSync_ReloadsExternalWrites(t *testing.T) {
	store, h := setupTestServer(t)

	store.mu.Lock()
	doc := store.docs[7].Clone()
	doc.Settings.Categories[1].Label = "Reading"
	store.docs[7] = doc
	store.mu.Unlock()

	w := do(t, h, http.MethodPost, "/api/v1/accounts/7/sync", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/accounts/7/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Reading"`)
}
