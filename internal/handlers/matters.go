package handlers

import (
	"net/http"

	"ipfolio/internal/models"

	"github.com/labstack/echo/v4"
)

type MatterRequest struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	ClientID     string `json:"client_id"`
	AssetID      string `json:"asset_id"`
	NextDeadline string `json:"next_deadline"`
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return true
	}
	return false
}

func (r *MatterRequest) toModel() (models.Matter, error) {
	deadline, err := parseDate(r.NextDeadline)
	if err != nil {
		return models.Matter{}, err
	}
	status := r.Status
	if status == "" {
		status = "open"
	}
	priority := r.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	return models.Matter{
		Title:        r.Title,
		Type:         r.Type,
		Status:       status,
		Priority:     priority,
		ClientID:     r.ClientID,
		AssetID:      r.AssetID,
		NextDeadline: deadline,
	}, nil
}

func CreateMatter(c echo.Context) error {
	var req MatterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Matter title is required"})
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid priority"})
	}

	matter, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}

	return c.JSON(http.StatusCreated, session(c).CreateMatter(matter))
}

func GetMatters(c echo.Context) error {
	return c.JSON(http.StatusOK, session(c).ListMatters())
}

func UpdateMatter(c echo.Context) error {
	var req MatterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Matter title is required"})
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid priority"})
	}

	matter, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date format"})
	}
	matter.ID = c.Param("id")

	updated, err := session(c).UpdateMatter(matter)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func DeleteMatter(c echo.Context) error {
	if err := session(c).DeleteMatter(c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Matter deleted"})
}
