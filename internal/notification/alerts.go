package notification

import (
	"context"
	"fmt"
	"log/slog"

	"ipfolio/internal/models"
)

// SettingsFunc loads an organization's alert settings, used to honour the
// email notifications toggle.
type SettingsFunc func(orgID string) (models.AlertSettings, error)

// AlertNotifier bridges settled monitoring checks into the notification
// feed. Satisfies monitoring.Notifier.
type AlertNotifier struct {
	service  *NotificationService
	settings SettingsFunc
}

func NewAlertNotifier(service *NotificationService, settings SettingsFunc) *AlertNotifier {
	return &AlertNotifier{service: service, settings: settings}
}

func (n *AlertNotifier) enabled(orgID string) bool {
	settings, err := n.settings(orgID)
	if err != nil {
		slog.Warn("failed to load alert settings, skipping notification", "org_id", orgID, "error", err)
		return false
	}
	return settings.EmailNotifications
}

func (n *AlertNotifier) CheckCompleted(ctx context.Context, item *models.MonitoringItem, raised []models.MonitoringAlert) {
	if len(raised) == 0 || !n.enabled(item.OrgID) {
		return
	}

	_, err := n.service.SendNotification(ctx, &NotificationRequest{
		OrgID:   item.OrgID,
		Type:    TypeMonitoringAlert,
		Title:   "New monitoring alerts",
		Message: fmt.Sprintf("'%s' raised %d new alerts", item.Name, len(raised)),
		Data: map[string]interface{}{
			"monitoring_item_id": item.ID,
			"alerts_raised":      len(raised),
		},
	})
	if err != nil {
		slog.Error("failed to send alert notification", "org_id", item.OrgID, "item_id", item.ID, "error", err)
	}
}

func (n *AlertNotifier) CheckFailed(ctx context.Context, item *models.MonitoringItem, message string) {
	if !n.enabled(item.OrgID) {
		return
	}

	_, err := n.service.SendNotification(ctx, &NotificationRequest{
		OrgID:   item.OrgID,
		Type:    TypeCheckFailed,
		Title:   "Monitoring check failed",
		Message: fmt.Sprintf("check failed for '%s': %s", item.Name, message),
		Data: map[string]interface{}{
			"monitoring_item_id": item.ID,
		},
	})
	if err != nil {
		slog.Error("failed to send failure notification", "org_id", item.OrgID, "item_id", item.ID, "error", err)
	}
}
