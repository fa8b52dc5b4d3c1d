package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ipfolio/internal/db"
	"ipfolio/internal/models"
	"ipfolio/internal/queue"

	"github.com/labstack/echo/v4"
)

type MonitoringItemRequest struct {
	Name      string                `json:"name"`
	Type      string                `json:"type"`
	Keywords  []string              `json:"keywords"`
	Frequency string                `json:"frequency"`
	Status    string                `json:"status"`
	Config    *models.MonitorConfig `json:"config"`
}

func validMonitorType(t string) bool {
	switch t {
	case models.MonitorTrademark, models.MonitorDomain, models.MonitorMarketplace, models.MonitorSocial:
		return true
	}
	return false
}

func validFrequency(f string) bool {
	switch f {
	case models.FreqHourly, models.FreqDaily, models.FreqWeekly, models.FreqMonthly:
		return true
	}
	return false
}

func CreateMonitoringItem(c echo.Context) error {
	var req MonitoringItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Watch name is required"})
	}
	if !validMonitorType(req.Type) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid monitoring type"})
	}
	if len(req.Keywords) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "At least one keyword is required"})
	}
	if req.Frequency == "" {
		req.Frequency = models.FreqDaily
	}
	if !validFrequency(req.Frequency) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid check frequency"})
	}

	item := models.MonitoringItem{
		OrgID:     orgID(c),
		Name:      req.Name,
		Type:      req.Type,
		Keywords:  req.Keywords,
		Frequency: req.Frequency,
	}
	if req.Config != nil {
		raw, err := json.Marshal(req.Config)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid watch configuration"})
		}
		item.Config = raw
	}

	if err := monitor.CreateItem(c.Request().Context(), &item); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create monitoring item"})
	}
	return c.JSON(http.StatusCreated, item)
}

func GetMonitoringItems(c echo.Context) error {
	items, err := monitor.ListItems(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring items"})
	}
	return c.JSON(http.StatusOK, items)
}

func GetMonitoringItem(c echo.Context) error {
	item, err := monitor.GetItem(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Monitoring item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring item"})
	}
	return c.JSON(http.StatusOK, item)
}

func UpdateMonitoringItem(c echo.Context) error {
	ctx := c.Request().Context()
	item, err := monitor.GetItem(ctx, orgID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Monitoring item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring item"})
	}

	var req MonitoringItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if len(req.Keywords) > 0 {
		item.Keywords = req.Keywords
	}
	if req.Frequency != "" {
		if !validFrequency(req.Frequency) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid check frequency"})
		}
		item.Frequency = req.Frequency
	}
	// Users only toggle between active and paused; checking and error are
	// owned by the check lifecycle.
	if req.Status != "" {
		if req.Status != models.StatusActive && req.Status != models.StatusPaused {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Status must be active or paused"})
		}
		item.Status = req.Status
	}
	if req.Config != nil {
		raw, err := json.Marshal(req.Config)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid watch configuration"})
		}
		item.Config = raw
	}

	if err := monitor.UpdateItem(ctx, item); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update monitoring item"})
	}
	return c.JSON(http.StatusOK, item)
}

func DeleteMonitoringItem(c echo.Context) error {
	err := monitor.DeleteItem(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Monitoring item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete monitoring item"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Monitoring item and its alerts deleted"})
}

// RunMonitoringCheck triggers an immediate check and waits for it to
// settle. Scheduled checks go through the worker instead.
func RunMonitoringCheck(c echo.Context) error {
	report, err := monitor.RunCheck(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Monitoring item not found"})
		case errors.Is(err, db.ErrItemPaused):
			return c.JSON(http.StatusConflict, map[string]string{"error": "Monitoring item is paused"})
		case errors.Is(err, db.ErrCheckInProgress):
			return c.JSON(http.StatusConflict, map[string]string{"error": "A check is already running for this item"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to run check"})
		}
	}
	return c.JSON(http.StatusOK, report)
}

// QueueMonitoringCheck enqueues a background check and returns the task id.
func QueueMonitoringCheck(c echo.Context) error {
	// Verify the item exists under this org before enqueueing, so a bad id
	// gets a 404 instead of a task that silently skips.
	if _, err := monitor.GetItem(c.Request().Context(), orgID(c), c.Param("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Monitoring item not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring item"})
	}

	taskID, err := queue.EnqueueMonitoringCheck(queue.MonitoringCheckPayload{
		OrgID:  orgID(c),
		ItemID: c.Param("id"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to queue check"})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"task_id": taskID})
}

func GetMonitoringAlerts(c echo.Context) error {
	alerts, err := monitor.ListAlerts(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring alerts"})
	}
	return c.JSON(http.StatusOK, alerts)
}

func GetMonitoringItemAlerts(c echo.Context) error {
	alerts, err := monitor.ListAlertsByItem(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring alerts"})
	}
	return c.JSON(http.StatusOK, alerts)
}

func GetJobStatus(c echo.Context) error {
	info, err := queue.GetTaskStatus(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      info.ID,
		"type":    info.Type,
		"state":   info.State.String(),
		"queue":   info.Queue,
		"retried": info.Retried,
	})
}
