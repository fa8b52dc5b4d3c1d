package db

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"ipfolio/internal/models"
)

// NormalizeAlertDays keeps the threshold list sorted ascending with
// duplicates and non-positive offsets dropped. Applied on every write so
// the invariant holds regardless of what the caller sends.
func NormalizeAlertDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d <= 0 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// GetAlertSettings returns the organization's saved settings, or the
// defaults when the organization has never saved any.
func GetAlertSettings(orgID string) (models.AlertSettings, error) {
	var row struct {
		AlertDays          pq.Int64Array `db:"alert_days"`
		EmailNotifications bool          `db:"email_notifications"`
		AutoRenewal        bool          `db:"auto_renewal"`
	}

	err := DB.Get(&row, `
		SELECT alert_days, email_notifications, auto_renewal
		FROM alert_settings
		WHERE org_id = $1
	`, orgID)
	if err == sql.ErrNoRows {
		return models.DefaultAlertSettings(), nil
	}
	if err != nil {
		return models.AlertSettings{}, fmt.Errorf("failed to load alert settings: %w", err)
	}

	days := make([]int, len(row.AlertDays))
	for i, d := range row.AlertDays {
		days[i] = int(d)
	}

	return models.AlertSettings{
		AlertDays:          NormalizeAlertDays(days),
		EmailNotifications: row.EmailNotifications,
		AutoRenewal:        row.AutoRenewal,
	}, nil
}

// UpsertAlertSettings saves the organization's settings, normalizing the
// threshold list on the way in.
func UpsertAlertSettings(orgID string, settings models.AlertSettings) (models.AlertSettings, error) {
	settings.AlertDays = NormalizeAlertDays(settings.AlertDays)

	days := make(pq.Int64Array, len(settings.AlertDays))
	for i, d := range settings.AlertDays {
		days[i] = int64(d)
	}

	_, err := DB.Exec(`
		INSERT INTO alert_settings (org_id, alert_days, email_notifications, auto_renewal)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id) DO UPDATE
		SET alert_days = $2,
		    email_notifications = $3,
		    auto_renewal = $4,
		    updated_at = CURRENT_TIMESTAMP
	`, orgID, days, settings.EmailNotifications, settings.AutoRenewal)
	if err != nil {
		return models.AlertSettings{}, fmt.Errorf("failed to save alert settings: %w", err)
	}

	return settings, nil
}
