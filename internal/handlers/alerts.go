package handlers

import (
	"errors"
	"net/http"

	"ipfolio/internal/alerts"
	"ipfolio/internal/db"
	"ipfolio/internal/models"
	"ipfolio/internal/store"

	"github.com/labstack/echo/v4"
)

// GetAlerts returns the combined feed: derived system alerts plus
// persistent monitoring alerts, filterable by priority and type.
func GetAlerts(c echo.Context) error {
	derived := session(c).DerivedAlerts()

	monitoringAlerts, err := monitor.ListAlerts(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch monitoring alerts"})
	}

	entries := alerts.Combined(derived, monitoringAlerts)
	entries = alerts.Filter(entries, c.QueryParam("priority"), c.QueryParam("type"))

	return c.JSON(http.StatusOK, entries)
}

// DismissAlert handles both alert sources. System alerts come back on the
// next recompute; monitoring alerts are gone for good.
func DismissAlert(c echo.Context) error {
	id := c.Param("id")

	switch c.QueryParam("source") {
	case models.SourceSystem:
		if err := session(c).DismissDerived(id); err != nil {
			return storeError(c, err)
		}
	default:
		if err := monitor.DismissAlert(c.Request().Context(), orgID(c), id); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				// Fall back to the derived list when the id is not a
				// monitoring alert.
				if derr := session(c).DismissDerived(id); derr != nil {
					return storeError(c, store.ErrNotFound)
				}
				break
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to dismiss alert"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Alert dismissed"})
}
