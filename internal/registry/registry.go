package registry

import (
	"context"
	"encoding/json"
	"time"

	"ipfolio/internal/models"
)

// Finding is one raw hit returned by a monitoring source.
type Finding struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	Score       float64   `json:"score,omitempty"`
	DetectedAt  time.Time `json:"detected_at"`
}

// AlertDraft is a finding the source judged alert-worthy. The monitoring
// service turns each draft into one persisted alert.
type AlertDraft struct {
	Type           string          `json:"type"`
	Priority       string          `json:"priority"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Keyword        string          `json:"keyword,omitempty"`
	Platform       string          `json:"platform,omitempty"`
	ActionRequired bool            `json:"action_required"`
	Data           json.RawMessage `json:"data,omitempty"`
}

type CheckOutcome struct {
	Results   []Finding    `json:"results"`
	Alerts    []AlertDraft `json:"alerts"`
	NextCheck time.Time    `json:"next_check"`
}

// Checker runs one check against an external monitoring source. The HTTP
// client below is the real integration; the Fake stands in for tests and
// demo deployments.
type Checker interface {
	Check(ctx context.Context, item *models.MonitoringItem, apiKey string) (*CheckOutcome, error)
}
