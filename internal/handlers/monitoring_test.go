package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"ipfolio/internal/db"
	"ipfolio/internal/models"
	"ipfolio/internal/monitoring"
	"ipfolio/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyMonitorStore has no items; every lookup misses.
type emptyMonitorStore struct{}

func (emptyMonitorStore) CreateItem(context.Context, *models.MonitoringItem) error { return nil }
func (emptyMonitorStore) GetItem(context.Context, string, string) (*models.MonitoringItem, error) {
	return nil, db.ErrNotFound
}
func (emptyMonitorStore) ListItems(context.Context, string) ([]models.MonitoringItem, error) {
	return nil, nil
}
func (emptyMonitorStore) UpdateItem(context.Context, *models.MonitoringItem) error { return nil }
func (emptyMonitorStore) DeleteItemCascade(context.Context, string, string) error {
	return db.ErrNotFound
}
func (emptyMonitorStore) Claim(context.Context, string, string) (*models.MonitoringItem, error) {
	return nil, db.ErrNotFound
}
func (emptyMonitorStore) Complete(context.Context, string, string, time.Time, time.Time, json.RawMessage, []models.MonitoringAlert) (bool, error) {
	return false, nil
}
func (emptyMonitorStore) Fail(context.Context, string, string, string) (bool, error) {
	return false, nil
}
func (emptyMonitorStore) DueItems(context.Context, time.Time) ([]models.MonitoringItem, error) {
	return nil, nil
}
func (emptyMonitorStore) ListAlerts(context.Context, string) ([]models.MonitoringAlert, error) {
	return nil, nil
}
func (emptyMonitorStore) ListAlertsByItem(context.Context, string, string) ([]models.MonitoringAlert, error) {
	return nil, nil
}
func (emptyMonitorStore) DismissAlert(context.Context, string, string) error { return db.ErrNotFound }

func TestQueueCheckUnknownItem(t *testing.T) {
	svc := monitoring.NewService(emptyMonitorStore{}, nil, nil, nil)
	Init(store.NewSessions(nil), store.NewAdmin(), svc)

	c, rec := newContext(t, http.MethodPost, "/monitoring/items/nope/check/queue", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, QueueMonitoringCheck(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
