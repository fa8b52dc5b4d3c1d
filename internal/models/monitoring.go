package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Monitoring item types
const (
	MonitorTrademark   = "trademark"
	MonitorDomain      = "domain"
	MonitorMarketplace = "marketplace"
	MonitorSocial      = "social"
)

// Monitoring item statuses
const (
	StatusActive   = "active"
	StatusChecking = "checking"
	StatusPaused   = "paused"
	StatusError    = "error"
)

// Check frequencies
const (
	FreqHourly  = "hourly"
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// FrequencyInterval maps a frequency to the gap between automatic checks.
func FrequencyInterval(frequency string) time.Duration {
	switch frequency {
	case FreqHourly:
		return time.Hour
	case FreqWeekly:
		return 7 * 24 * time.Hour
	case FreqMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// MonitorConfig carries the type-specific watch configuration. Only the
// fields relevant to the item's type are populated.
type MonitorConfig struct {
	Classes          []string `json:"classes,omitempty"`
	Extensions       []string `json:"extensions,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
	SocialPlatforms  []string `json:"social_platforms,omitempty"`
	IncludeVariants  bool     `json:"include_variants,omitempty"`
	ExactMatchOnly   bool     `json:"exact_match_only,omitempty"`
	NotifyOnNewOnly  bool     `json:"notify_on_new_only,omitempty"`
	IncludeInactive  bool     `json:"include_inactive,omitempty"`
}

type MonitoringItem struct {
	ID          string          `db:"id" json:"id"`
	OrgID       string          `db:"org_id" json:"org_id"`
	Name        string          `db:"name" json:"name"`
	Type        string          `db:"type" json:"type"`
	Keywords    pq.StringArray  `db:"keywords" json:"keywords"`
	Frequency   string          `db:"frequency" json:"frequency"`
	Status      string          `db:"status" json:"status"`
	LastChecked *time.Time      `db:"last_checked" json:"last_checked,omitempty"`
	NextCheck   *time.Time      `db:"next_check" json:"next_check,omitempty"`
	AlertCount  int             `db:"alert_count" json:"alert_count"`
	LastError   *string         `db:"last_error" json:"last_error,omitempty"`
	LastResults json.RawMessage `db:"last_results" json:"last_results,omitempty"`
	Config      json.RawMessage `db:"config" json:"config,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// MonitoringAlert persists until dismissed, independent of future checks
// on its item. MonitoringItemName is a snapshot taken when the alert is
// raised; renaming the item later does not rewrite it.
type MonitoringAlert struct {
	ID                 string          `db:"id" json:"id"`
	OrgID              string          `db:"org_id" json:"org_id"`
	Type               string          `db:"type" json:"type"`
	Priority           string          `db:"priority" json:"priority"`
	Title              string          `db:"title" json:"title"`
	Description        string          `db:"description" json:"description"`
	Keyword            string          `db:"keyword" json:"keyword,omitempty"`
	Platform           string          `db:"platform" json:"platform,omitempty"`
	MonitoringItemID   string          `db:"monitoring_item_id" json:"monitoring_item_id"`
	MonitoringItemName string          `db:"monitoring_item_name" json:"monitoring_item_name"`
	DetectedAt         time.Time       `db:"detected_at" json:"detected_at"`
	Data               json.RawMessage `db:"data" json:"data,omitempty"`
	ActionRequired     bool            `db:"action_required" json:"action_required"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}
