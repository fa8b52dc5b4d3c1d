package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipfolio/internal/models"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func assetExpiring(id string, days int) models.Asset {
	return models.Asset{
		ID:         id,
		Name:       "Asset " + id,
		Type:       models.AssetTrademark,
		Status:     "registered",
		ClientID:   "client-1",
		ExpiryDate: datePtr(testNow.AddDate(0, 0, days)),
	}
}

func matterDue(id string, days int) models.Matter {
	return models.Matter{
		ID:           id,
		Title:        "Matter " + id,
		Type:         "prosecution",
		Status:       "open",
		Priority:     models.PriorityMedium,
		ClientID:     "client-1",
		NextDeadline: datePtr(testNow.AddDate(0, 0, days)),
	}
}

func TestDeriveThresholds(t *testing.T) {
	settings := models.DefaultAlertSettings()

	got := Derive([]models.Asset{assetExpiring("a1", 45)}, nil, settings, testNow)

	// 45 days out matches the 60 and 90 thresholds but not 30.
	require.Len(t, got, 2)
	assert.Equal(t, "expiry-a1-60", got[0].ID)
	assert.Equal(t, "expiry-a1-90", got[1].ID)
	for _, a := range got {
		assert.Equal(t, "a1", a.SourceID)
		assert.Equal(t, models.AlertExpiry, a.Type)
		assert.Equal(t, models.PriorityMedium, a.Priority)
		assert.Equal(t, 45, a.DaysRemaining)
	}
}

func TestDeriveOverdue(t *testing.T) {
	got := Derive([]models.Asset{assetExpiring("a1", -1)}, nil, models.DefaultAlertSettings(), testNow)

	require.Len(t, got, 1)
	assert.Equal(t, "overdue-a1", got[0].ID)
	assert.Equal(t, models.AlertOverdue, got[0].Type)
	assert.Equal(t, models.PriorityCritical, got[0].Priority)
	assert.Equal(t, -1, got[0].DaysRemaining)
}

func TestDeriveExpiresToday(t *testing.T) {
	// The original behavior raised nothing for an asset expiring today;
	// that gap is closed here and today counts as overdue.
	got := Derive([]models.Asset{assetExpiring("a1", 0)}, nil, models.DefaultAlertSettings(), testNow)

	require.Len(t, got, 1)
	assert.Equal(t, models.AlertOverdue, got[0].Type)
	assert.Equal(t, 0, got[0].DaysRemaining)
}

func TestDeriveExpiryPriorities(t *testing.T) {
	tests := []struct {
		days     int
		priority string
	}{
		{15, models.PriorityHigh},
		{30, models.PriorityHigh},
		{45, models.PriorityMedium},
		{60, models.PriorityMedium},
		{75, models.PriorityLow},
	}

	for _, tc := range tests {
		got := Derive([]models.Asset{assetExpiring("a1", tc.days)}, nil, models.DefaultAlertSettings(), testNow)
		require.NotEmpty(t, got, "days=%d", tc.days)
		assert.Equal(t, tc.priority, got[0].Priority, "days=%d", tc.days)
	}
}

func TestDeriveMatterDeadlines(t *testing.T) {
	t.Run("priority bands", func(t *testing.T) {
		tests := []struct {
			days     int
			priority string
		}{
			{7, models.PriorityCritical},
			{10, models.PriorityHigh},
			{14, models.PriorityHigh},
			{20, models.PriorityMedium},
			{30, models.PriorityMedium},
		}

		for _, tc := range tests {
			got := Derive(nil, []models.Matter{matterDue("m1", tc.days)}, models.DefaultAlertSettings(), testNow)
			require.Len(t, got, 1, "days=%d", tc.days)
			assert.Equal(t, models.AlertMatterDue, got[0].Type, "days=%d", tc.days)
			assert.Equal(t, tc.priority, got[0].Priority, "days=%d", tc.days)
		}
	})

	t.Run("beyond window", func(t *testing.T) {
		got := Derive(nil, []models.Matter{matterDue("m1", 31)}, models.DefaultAlertSettings(), testNow)
		assert.Empty(t, got)
	})

	t.Run("overdue", func(t *testing.T) {
		got := Derive(nil, []models.Matter{matterDue("m1", -3)}, models.DefaultAlertSettings(), testNow)
		require.Len(t, got, 1)
		assert.Equal(t, models.AlertMatterOverdue, got[0].Type)
		assert.Equal(t, models.PriorityCritical, got[0].Priority)
		assert.Equal(t, -3, got[0].DaysRemaining)
	})
}

func TestDeriveSkipsMissingDates(t *testing.T) {
	asset := assetExpiring("a1", 10)
	asset.ExpiryDate = nil
	matter := matterDue("m1", 5)
	matter.NextDeadline = nil

	got := Derive([]models.Asset{asset}, []models.Matter{matter}, models.DefaultAlertSettings(), testNow)
	assert.Empty(t, got)
}

func TestDeriveOrderAndDeterminism(t *testing.T) {
	assets := []models.Asset{assetExpiring("a1", 20), assetExpiring("a2", -2)}
	matters := []models.Matter{matterDue("m1", 5)}
	settings := models.DefaultAlertSettings()

	first := Derive(assets, matters, settings, testNow)
	second := Derive(assets, matters, settings, testNow)

	assert.Equal(t, first, second)

	// Assets come first, matters after, in input order.
	require.Len(t, first, 5)
	assert.Equal(t, "a1", first[0].SourceID)
	assert.Equal(t, "a2", first[3].SourceID)
	assert.Equal(t, "m1", first[4].SourceID)
}

func TestDeriveIgnoresTimeOfDay(t *testing.T) {
	// Expiry just before midnight vs. just after must land on the same day
	// count: the comparison is calendar-day, not 24h buckets.
	expiry := time.Date(2025, 6, 16, 0, 5, 0, 0, time.UTC)
	asset := models.Asset{ID: "a1", Name: "A", ExpiryDate: &expiry, ClientID: "c1"}

	got := Derive([]models.Asset{asset}, nil, models.DefaultAlertSettings(), testNow)
	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].DaysRemaining)
}
