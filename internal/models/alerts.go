package models

import "time"

// Derived alert types
const (
	AlertExpiry        = "expiry"
	AlertOverdue       = "overdue"
	AlertMatterDue     = "matter-deadline"
	AlertMatterOverdue = "matter-overdue"
)

// Alert sources, used when the system and monitoring feeds are combined
const (
	SourceSystem     = "system"
	SourceMonitoring = "monitoring"
)

type AlertSettings struct {
	AlertDays          []int `json:"alert_days"`
	EmailNotifications bool  `json:"email_notifications"`
	AutoRenewal        bool  `json:"auto_renewal"`
}

// DefaultAlertSettings are used when an organization has never saved settings.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		AlertDays:          []int{30, 60, 90},
		EmailNotifications: true,
		AutoRenewal:        false,
	}
}

// DerivedAlert is recomputed wholesale from assets, matters and settings.
// It is never persisted; ids are deterministic so identical inputs produce
// identical output.
type DerivedAlert struct {
	ID            string    `json:"id"`
	SourceType    string    `json:"source_type"`
	SourceID      string    `json:"source_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	DaysRemaining int       `json:"days_remaining"`
	Priority      string    `json:"priority"`
	CreatedAt     time.Time `json:"created_at"`
}
