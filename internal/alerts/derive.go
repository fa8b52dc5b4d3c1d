package alerts

import (
	"fmt"
	"time"

	"ipfolio/internal/models"
)

// Derive recomputes the full system alert list from the current assets,
// matters and settings. The result replaces any previous list wholesale.
// Pure: inputs are never mutated and identical inputs with the same now
// produce identical output.
func Derive(assets []models.Asset, matters []models.Matter, settings models.AlertSettings, now time.Time) []models.DerivedAlert {
	var out []models.DerivedAlert

	for _, asset := range assets {
		if asset.ExpiryDate == nil {
			continue
		}

		days := daysBetween(now, *asset.ExpiryDate)

		// An asset expiring today counts as overdue; the expiry branch
		// below requires at least one full day of runway.
		if days <= 0 {
			out = append(out, models.DerivedAlert{
				ID:            "overdue-" + asset.ID,
				SourceType:    "asset",
				SourceID:      asset.ID,
				Type:          models.AlertOverdue,
				Message:       fmt.Sprintf("%s has expired", asset.Name),
				DaysRemaining: days,
				Priority:      models.PriorityCritical,
				CreatedAt:     now,
			})
			continue
		}

		// One alert per matching threshold. A 45-day runway against
		// thresholds {30,60,90} emits two alerts, not one.
		for _, d := range settings.AlertDays {
			if days <= d {
				out = append(out, models.DerivedAlert{
					ID:            fmt.Sprintf("expiry-%s-%d", asset.ID, d),
					SourceType:    "asset",
					SourceID:      asset.ID,
					Type:          models.AlertExpiry,
					Message:       fmt.Sprintf("%s expires in %d days", asset.Name, days),
					DaysRemaining: days,
					Priority:      expiryPriority(days),
					CreatedAt:     now,
				})
			}
		}
	}

	for _, matter := range matters {
		if matter.NextDeadline == nil {
			continue
		}

		days := daysBetween(now, *matter.NextDeadline)

		switch {
		case days < 0:
			out = append(out, models.DerivedAlert{
				ID:            "matter-overdue-" + matter.ID,
				SourceType:    "matter",
				SourceID:      matter.ID,
				Type:          models.AlertMatterOverdue,
				Message:       fmt.Sprintf("%s deadline has passed", matter.Title),
				DaysRemaining: days,
				Priority:      models.PriorityCritical,
				CreatedAt:     now,
			})
		case days <= 30:
			out = append(out, models.DerivedAlert{
				ID:            "deadline-" + matter.ID,
				SourceType:    "matter",
				SourceID:      matter.ID,
				Type:          models.AlertMatterDue,
				Message:       fmt.Sprintf("%s deadline in %d days", matter.Title, days),
				DaysRemaining: days,
				Priority:      deadlinePriority(days),
				CreatedAt:     now,
			})
		}
	}

	return out
}

func expiryPriority(days int) string {
	switch {
	case days <= 30:
		return models.PriorityHigh
	case days <= 60:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func deadlinePriority(days int) string {
	switch {
	case days <= 7:
		return models.PriorityCritical
	case days <= 14:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

// daysBetween is the calendar-day difference from now to target, ignoring
// time of day. Negative when the target has passed.
func daysBetween(now, target time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
