package notification

import "time"

type NotificationType string

const (
	TypeMonitoringAlert NotificationType = "monitoring_alert"
	TypeCheckFailed     NotificationType = "check_failed"
	TypeSuccess         NotificationType = "success"
)

type Notification struct {
	ID        string                 `json:"id"`
	OrgID     string                 `json:"org_id"`
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
}

type NotificationRequest struct {
	OrgID   string                 `json:"org_id"`
	Type    NotificationType       `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	TTL     *time.Duration         `json:"ttl,omitempty"`
}

type NotificationFilter struct {
	OrgID string           `json:"org_id"`
	Type  NotificationType `json:"type,omitempty"`
	Read  *bool            `json:"read,omitempty"`
	Limit int              `json:"limit,omitempty"`
}

type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}
