package handlers

import (
	"errors"
	"net/http"
	"time"

	"ipfolio/internal/monitoring"
	"ipfolio/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	sessions *store.Sessions
	admin    *store.Admin
	monitor  *monitoring.Service
)

// Init wires the handler package to its backing services. Called once
// from main before routes are registered.
func Init(s *store.Sessions, a *store.Admin, m *monitoring.Service) {
	sessions = s
	admin = a
	monitor = m
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// session resolves the per-organization workspace from the JWT claims.
func session(c echo.Context) *store.Session {
	orgID := c.Get("org_id").(string)
	return sessions.ForOrg(orgID)
}

func orgID(c echo.Context) string {
	return c.Get("org_id").(string)
}

// parseDate accepts the dashboard's date formats. Empty means unset.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// storeError maps store sentinels onto HTTP responses.
func storeError(c echo.Context, err error) error {
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":          "Delete blocked by linked records",
			"kind":           conflict.Kind,
			"blocking_count": conflict.BlockingCount,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}
}
