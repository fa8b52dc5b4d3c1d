package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipfolio/internal/db"
	"ipfolio/internal/models"
	"ipfolio/internal/registry"
)

// fakeStore mirrors the Postgres store's claim/settle semantics in memory.
type fakeStore struct {
	items  map[string]*models.MonitoringItem
	alerts []models.MonitoringAlert
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*models.MonitoringItem)}
}

func (f *fakeStore) CreateItem(_ context.Context, item *models.MonitoringItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) GetItem(_ context.Context, orgID, id string) (*models.MonitoringItem, error) {
	item, ok := f.items[id]
	if !ok || item.OrgID != orgID {
		return nil, db.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) ListItems(_ context.Context, orgID string) ([]models.MonitoringItem, error) {
	var out []models.MonitoringItem
	for _, item := range f.items {
		if item.OrgID == orgID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, item *models.MonitoringItem) error {
	existing, ok := f.items[item.ID]
	if !ok {
		return db.ErrNotFound
	}
	existing.Name = item.Name
	existing.Keywords = item.Keywords
	existing.Frequency = item.Frequency
	existing.Config = item.Config
	if item.Status == models.StatusActive || item.Status == models.StatusPaused {
		existing.Status = item.Status
	}
	return nil
}

func (f *fakeStore) DeleteItemCascade(_ context.Context, orgID, id string) error {
	if _, ok := f.items[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.items, id)
	kept := f.alerts[:0]
	for _, a := range f.alerts {
		if a.MonitoringItemID != id {
			kept = append(kept, a)
		}
	}
	f.alerts = kept
	return nil
}

func (f *fakeStore) Claim(_ context.Context, orgID, id string) (*models.MonitoringItem, error) {
	item, ok := f.items[id]
	if !ok || item.OrgID != orgID {
		return nil, db.ErrNotFound
	}
	switch item.Status {
	case models.StatusPaused:
		return nil, db.ErrItemPaused
	case models.StatusChecking:
		return nil, db.ErrCheckInProgress
	}
	item.Status = models.StatusChecking
	cp := *item
	return &cp, nil
}

func (f *fakeStore) Complete(ctx context.Context, orgID, id string, checkedAt, nextCheck time.Time, lastResults json.RawMessage, alerts []models.MonitoringAlert) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	item, ok := f.items[id]
	if !ok || item.Status != models.StatusChecking {
		return false, nil
	}
	item.Status = models.StatusActive
	item.LastChecked = &checkedAt
	item.NextCheck = &nextCheck
	item.LastResults = lastResults
	item.AlertCount += len(alerts)
	item.LastError = nil
	f.alerts = append(f.alerts, alerts...)
	return true, nil
}

func (f *fakeStore) Fail(ctx context.Context, orgID, id, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	item, ok := f.items[id]
	if !ok || item.Status != models.StatusChecking {
		return false, nil
	}
	item.Status = models.StatusError
	item.LastError = &message
	return true, nil
}

func (f *fakeStore) DueItems(_ context.Context, now time.Time) ([]models.MonitoringItem, error) {
	var out []models.MonitoringItem
	for _, item := range f.items {
		if item.Status == models.StatusActive && item.NextCheck != nil && !item.NextCheck.After(now) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAlerts(_ context.Context, orgID string) ([]models.MonitoringAlert, error) {
	var out []models.MonitoringAlert
	for _, a := range f.alerts {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAlertsByItem(_ context.Context, orgID, itemID string) ([]models.MonitoringAlert, error) {
	var out []models.MonitoringAlert
	for _, a := range f.alerts {
		if a.OrgID == orgID && a.MonitoringItemID == itemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) DismissAlert(_ context.Context, orgID, id string) error {
	for i, a := range f.alerts {
		if a.OrgID == orgID && a.ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func outcomeWithAlerts(n int) *registry.CheckOutcome {
	out := &registry.CheckOutcome{
		Results: []registry.Finding{{Title: "hit", DetectedAt: time.Now()}},
	}
	for i := 0; i < n; i++ {
		out.Alerts = append(out.Alerts, registry.AlertDraft{
			Type:        "infringement",
			Priority:    models.PriorityHigh,
			Title:       "Suspicious listing",
			Description: "Keyword match on marketplace listing",
			Keyword:     "acme",
		})
	}
	return out
}

func newTestService(store Store, checker registry.Checker) *Service {
	svc := NewService(store, checker, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func seedItem(t *testing.T, svc *Service, store *fakeStore) *models.MonitoringItem {
	t.Helper()
	item := &models.MonitoringItem{
		OrgID:     "org-1",
		Name:      "Acme watch",
		Type:      models.MonitorMarketplace,
		Keywords:  []string{"acme"},
		Frequency: models.FreqDaily,
	}
	require.NoError(t, svc.CreateItem(context.Background(), item))
	return item
}

func TestRunCheckSuccess(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(2)}}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	report, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.True(t, report.Success)
	require.Len(t, report.AlertsRaised, 2)

	got, err := svc.GetItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, 2, got.AlertCount)
	require.NotNil(t, got.LastChecked)
	require.NotNil(t, got.NextCheck)
	assert.Equal(t, got.LastChecked.Add(24*time.Hour), *got.NextCheck)

	alerts, err := svc.ListAlertsByItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Acme watch", alerts[0].MonitoringItemName)
}

func TestRunCheckMonotonicAlertCount(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{
		outcomeWithAlerts(2),
		outcomeWithAlerts(0),
	}}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	_, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	_, err = svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)

	// A clean second check adds nothing but never resets the counter.
	got, err := svc.GetItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AlertCount)
}

func TestRunCheckFailure(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Err: errors.New("gateway timeout")}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	report, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.Contains(t, report.Error, "gateway timeout")

	got, err := svc.GetItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.Status)
	require.NotNil(t, got.LastError)
	assert.Nil(t, got.LastChecked, "failure must not advance last_checked")
	assert.Empty(t, store.alerts)

	// An errored item is retriable through the same entry point.
	checker.Err = nil
	checker.Outcomes = []*registry.CheckOutcome{outcomeWithAlerts(0)}
	report, err = svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.True(t, report.Success)
}

func TestRunCheckRejectsConcurrent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(1)}})
	item := seedItem(t, svc, store)

	// Simulate an in-flight check by claiming directly.
	_, err := store.Claim(context.Background(), "org-1", item.ID)
	require.NoError(t, err)

	_, err = svc.RunCheck(context.Background(), "org-1", item.ID)
	assert.ErrorIs(t, err, db.ErrCheckInProgress)
}

func TestRunCheckRejectsPaused(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(0)}})
	item := seedItem(t, svc, store)

	item.Status = models.StatusPaused
	require.NoError(t, svc.UpdateItem(context.Background(), item))

	_, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	assert.ErrorIs(t, err, db.ErrItemPaused)
}

func TestDeleteItemCascades(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(3)}}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	_, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	alerts, _ := svc.ListAlertsByItem(context.Background(), "org-1", item.ID)
	require.Len(t, alerts, 3)

	require.NoError(t, svc.DeleteItem(context.Background(), "org-1", item.ID))

	_, err = svc.GetItem(context.Background(), "org-1", item.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	alerts, err = svc.ListAlertsByItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckSettlingAfterDeleteIsDiscarded(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(2)}})
	item := seedItem(t, svc, store)

	// Claim, then delete the item while the check is "in flight".
	_, err := store.Claim(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	require.NoError(t, store.DeleteItemCascade(context.Background(), "org-1", item.ID))

	applied, err := store.Complete(context.Background(), "org-1", item.ID,
		time.Now(), time.Now().Add(time.Hour), nil, []models.MonitoringAlert{{ID: "x"}})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, store.alerts, "a discarded outcome must not leave alerts behind")
}

func TestDismissedAlertSurvivesLaterChecks(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{
		outcomeWithAlerts(1),
		outcomeWithAlerts(0),
	}}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	_, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	alerts, _ := svc.ListAlerts(context.Background(), "org-1")
	require.Len(t, alerts, 1)

	// A later check raising nothing leaves the earlier alert in place.
	_, err = svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	alerts, _ = svc.ListAlerts(context.Background(), "org-1")
	require.Len(t, alerts, 1)

	require.NoError(t, svc.DismissAlert(context.Background(), "org-1", alerts[0].ID))
	alerts, _ = svc.ListAlerts(context.Background(), "org-1")
	assert.Empty(t, alerts)
}

func TestRenameDoesNotRewriteAlertSnapshots(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(1)}}
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	_, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)

	item.Name = "Renamed watch"
	require.NoError(t, svc.UpdateItem(context.Background(), item))

	alerts, _ := svc.ListAlertsByItem(context.Background(), "org-1", item.ID)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Acme watch", alerts[0].MonitoringItemName)
}

type checkerFunc func(context.Context, *models.MonitoringItem, string) (*registry.CheckOutcome, error)

func (f checkerFunc) Check(ctx context.Context, item *models.MonitoringItem, apiKey string) (*registry.CheckOutcome, error) {
	return f(ctx, item, apiKey)
}

func TestCallerCancellationStillSettles(t *testing.T) {
	store := newFakeStore()
	ctx, cancel := context.WithCancel(context.Background())

	// The caller goes away while the check is in flight.
	checker := checkerFunc(func(c context.Context, _ *models.MonitoringItem, _ string) (*registry.CheckOutcome, error) {
		cancel()
		return nil, c.Err()
	})
	svc := newTestService(store, checker)
	item := seedItem(t, svc, store)

	report, err := svc.RunCheck(ctx, "org-1", item.ID)
	require.NoError(t, err)
	assert.False(t, report.Success)

	// The claim must still be released; a stranded checking item would
	// never be picked up by the sweep again.
	got, err := svc.GetItem(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.Status)
}

func TestCredentialFailureSettlesAsError(t *testing.T) {
	store := newFakeStore()
	checker := &registry.Fake{Outcomes: []*registry.CheckOutcome{outcomeWithAlerts(1)}}
	svc := newTestService(store, checker)
	svc.credentials = func(context.Context, string) (string, error) {
		return "", errors.New("no credential on file")
	}
	item := seedItem(t, svc, store)

	report, err := svc.RunCheck(context.Background(), "org-1", item.ID)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.Contains(t, report.Error, "no credential on file")
	assert.Equal(t, 0, checker.Calls, "checker must not run without a credential")
}
