package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipfolio/internal/models"
)

func TestCombinedTagsSources(t *testing.T) {
	derived := []models.DerivedAlert{
		{ID: "expiry-a1-30", Type: models.AlertExpiry, Priority: models.PriorityHigh, SourceID: "a1", CreatedAt: testNow},
	}
	monitoring := []models.MonitoringAlert{
		{ID: "ma-1", Type: "infringement", Priority: models.PriorityCritical, Title: "Lookalike listing", MonitoringItemID: "mi-1", CreatedAt: testNow},
	}

	got := Combined(derived, monitoring)

	require.Len(t, got, 2)
	assert.Equal(t, models.SourceSystem, got[0].Source)
	assert.Equal(t, models.SourceMonitoring, got[1].Source)
	assert.Equal(t, "mi-1", got[1].SourceID)
}

func TestFilter(t *testing.T) {
	entries := Combined(
		[]models.DerivedAlert{
			{ID: "1", Type: models.AlertExpiry, Priority: models.PriorityHigh, CreatedAt: time.Now()},
			{ID: "2", Type: models.AlertOverdue, Priority: models.PriorityCritical, CreatedAt: time.Now()},
		},
		[]models.MonitoringAlert{
			{ID: "3", Type: "infringement", Priority: models.PriorityHigh, CreatedAt: time.Now()},
		},
	)

	t.Run("by priority", func(t *testing.T) {
		got := Filter(entries, models.PriorityHigh, "")
		assert.Len(t, got, 2)
	})

	t.Run("by type", func(t *testing.T) {
		got := Filter(entries, "", models.AlertOverdue)
		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("both", func(t *testing.T) {
		got := Filter(entries, models.PriorityHigh, "infringement")
		require.Len(t, got, 1)
		assert.Equal(t, "3", got[0].ID)
	})

	t.Run("no filter returns all", func(t *testing.T) {
		assert.Len(t, Filter(entries, "", ""), 3)
	})
}
