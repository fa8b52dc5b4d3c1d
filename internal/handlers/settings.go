package handlers

import (
	"net/http"

	"ipfolio/internal/db"
	"ipfolio/internal/models"

	"github.com/labstack/echo/v4"
)

type AlertSettingsRequest struct {
	AlertDays          []int `json:"alert_days"`
	EmailNotifications bool  `json:"email_notifications"`
	AutoRenewal        bool  `json:"auto_renewal"`
}

func GetAlertSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, session(c).Settings())
}

func UpdateAlertSettings(c echo.Context) error {
	var req AlertSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if len(req.AlertDays) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "At least one alert threshold is required"})
	}

	saved, err := db.UpsertAlertSettings(orgID(c), models.AlertSettings{
		AlertDays:          req.AlertDays,
		EmailNotifications: req.EmailNotifications,
		AutoRenewal:        req.AutoRenewal,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
	}

	// New thresholds take effect immediately on the derived alert list.
	session(c).UpdateSettings(saved)

	return c.JSON(http.StatusOK, saved)
}
