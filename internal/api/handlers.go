package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"momentum/internal/focus"
	"momentum/internal/model"
	"momentum/internal/service"
	"momentum/internal/tracker"
)

const defaultStatDays = 7

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// LogResponse is returned by the log and undo endpoints.
type LogResponse struct {
	Category     model.Category          `json:"category"`
	Count        int                     `json:"count"`
	Streak       int                     `json:"streak"`
	Advanced     bool                    `json:"streakAdvanced"`
	Celebrations []tracker.RoutineStatus `json:"celebrations,omitempty"`
	Routines     []tracker.RoutineStatus `json:"routines"`
}

// EditDayRequest replaces the counts of one day.
type EditDayRequest struct {
	Counts map[string]int `json:"counts" binding:"required"`
}

// UpdateCategoryRequest renames or recolours a category.
type UpdateCategoryRequest struct {
	Label string `json:"label" binding:"max=64"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// MoveCategoryRequest reorders the category list using 0-based positions.
type MoveCategoryRequest struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required,min=0"`
}

// Handlers adapts tracker operations to HTTP.
type Handlers struct {
	tracker *service.TrackerService
	log     *zap.Logger
}

func NewHandlers(tracker *service.TrackerService, log *zap.Logger) *Handlers {
	return &Handlers{tracker: tracker, log: log}
}

// RegisterRoutes mounts the account endpoints on rg.
//
//	GET    /accounts/:account/routines/today
//	POST   /accounts/:account/log/:category
//	DELETE /accounts/:account/log/:category
//	PATCH  /accounts/:account/categories/:category
//	POST   /accounts/:account/categories/move
//	PUT    /accounts/:account/days/:date
//	GET    /accounts/:account/stats?days=7
//	GET    /accounts/:account/history
//	GET    /accounts/:account/focus
//	GET    /accounts/:account/export
//	PUT    /accounts/:account/import
//	POST   /accounts/:account/sync
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	acc := rg.Group("/accounts/:account")
	acc.GET("/routines/today", h.HandleTodaysRoutines)
	acc.POST("/log/:category", h.HandleLogUnit)
	acc.DELETE("/log/:category", h.HandleRemoveUnit)
	acc.PATCH("/categories/:category", h.HandleUpdateCategory)
	acc.POST("/categories/move", h.HandleMoveCategory)
	acc.PUT("/days/:date", h.HandleEditDay)
	acc.GET("/stats", h.HandleStats)
	acc.GET("/history", h.HandleHistory)
	acc.GET("/focus", h.HandleFocus)
	acc.GET("/export", h.HandleExport)
	acc.PUT("/import", h.HandleImport)
	acc.POST("/sync", h.HandleSync)
}

func (h *Handlers) HandleTodaysRoutines(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	routines, err := h.tracker.TodaysRoutines(c.Request.Context(), account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": h.tracker.Today().Date, "routines": routines})
}

func (h *Handlers) HandleLogUnit(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	res, err := h.tracker.LogUnit(ctx, account, c.Param("category"))
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		h.fail(c, err)
		return
	}
	routines, rerr := h.tracker.TodaysRoutines(ctx, account)
	if rerr != nil {
		h.fail(c, rerr)
		return
	}
	body := LogResponse{
		Category:     res.Category,
		Count:        res.Outcome.Count,
		Streak:       res.Outcome.Streak,
		Advanced:     res.Outcome.StreakAdvanced,
		Celebrations: res.Celebrations,
		Routines:     routines,
	}
	if err != nil {
		// the change is kept in memory; tell the client it was not persisted yet
		c.JSON(http.StatusAccepted, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) HandleRemoveUnit(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	outcome, err := h.tracker.RemoveUnit(c.Request.Context(), account, c.Param("category"))
	if err != nil && !errors.Is(err, service.ErrSaveFailed) {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"count": outcome.Count, "streak": outcome.Streak})
}

func (h *Handlers) HandleUpdateCategory(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Label) == "" && req.Color == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "label or color is required"})
		return
	}
	if err := h.tracker.UpdateCategory(c.Request.Context(), account, c.Param("category"), req.Label, req.Color); err != nil {
		h.fail(c, err)
		return
	}
	h.respondCategories(c, account)
}

func (h *Handlers) HandleMoveCategory(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	var req MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := h.tracker.MoveCategory(c.Request.Context(), account, *req.From, *req.To); err != nil {
		h.fail(c, err)
		return
	}
	h.respondCategories(c, account)
}

func (h *Handlers) respondCategories(c *gin.Context, account int64) {
	data, err := h.tracker.Snapshot(c.Request.Context(), account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": data.Settings.Categories})
}

func (h *Handlers) HandleSync(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	if err := h.tracker.Sync(c.Request.Context(), account); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) HandleEditDay(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	var req EditDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	date := c.Param("date")
	if _, err := tracker.ParseDay(date); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.tracker.EditDay(c.Request.Context(), account, date, req.Counts); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) HandleStats(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	days := defaultStatDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 365 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "days must be between 1 and 365"})
			return
		}
		days = n
	}
	stats, err := h.tracker.Stats(c.Request.Context(), account, days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) HandleHistory(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	history, err := h.tracker.History(c.Request.Context(), account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": history})
}

func (h *Handlers) HandleFocus(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	state, err := h.tracker.FocusState(c.Request.Context(), account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"running":          state.Running,
		"paused":           state.Paused,
		"remainingSeconds": int(state.Remaining.Seconds()),
		"totalSeconds":     int(state.Total.Seconds()),
		"presets":          focus.Presets,
	})
}

func (h *Handlers) HandleExport(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	raw, err := h.tracker.Export(c.Request.Context(), account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="momentum-export.json"`)
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handlers) HandleImport(c *gin.Context) {
	account, ok := accountParam(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "read body: " + err.Error()})
		return
	}
	if err := h.tracker.Import(c.Request.Context(), account, raw); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func accountParam(c *gin.Context) (int64, bool) {
	account, err := strconv.ParseInt(c.Param("account"), 10, 64)
	if err != nil || account <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "account must be a positive integer"})
		return 0, false
	}
	return account, true
}

func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnknownCategory):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidImport), errors.Is(err, tracker.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSaveFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Retryable: true})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
