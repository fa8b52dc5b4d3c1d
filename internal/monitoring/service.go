package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ipfolio/internal/models"
	"ipfolio/internal/registry"
)

// Store is the persistence contract for monitoring items and their alerts.
// Implemented by db.MonitoringStore; tests use an in-memory fake.
type Store interface {
	CreateItem(ctx context.Context, item *models.MonitoringItem) error
	GetItem(ctx context.Context, orgID, id string) (*models.MonitoringItem, error)
	ListItems(ctx context.Context, orgID string) ([]models.MonitoringItem, error)
	UpdateItem(ctx context.Context, item *models.MonitoringItem) error
	DeleteItemCascade(ctx context.Context, orgID, id string) error
	Claim(ctx context.Context, orgID, id string) (*models.MonitoringItem, error)
	Complete(ctx context.Context, orgID, id string, checkedAt, nextCheck time.Time, lastResults json.RawMessage, alerts []models.MonitoringAlert) (bool, error)
	Fail(ctx context.Context, orgID, id, message string) (bool, error)
	DueItems(ctx context.Context, now time.Time) ([]models.MonitoringItem, error)
	ListAlerts(ctx context.Context, orgID string) ([]models.MonitoringAlert, error)
	ListAlertsByItem(ctx context.Context, orgID, itemID string) ([]models.MonitoringAlert, error)
	DismissAlert(ctx context.Context, orgID, id string) error
}

// Notifier is told about settled checks. Implementations decide whether
// the organization wants to hear about them.
type Notifier interface {
	CheckCompleted(ctx context.Context, item *models.MonitoringItem, raised []models.MonitoringAlert)
	CheckFailed(ctx context.Context, item *models.MonitoringItem, message string)
}

// CredentialFunc returns the decrypted registry API key for an org.
type CredentialFunc func(ctx context.Context, orgID string) (string, error)

// CheckReport is what a settled check hands back to the caller.
type CheckReport struct {
	Success      bool                      `json:"success"`
	Error        string                    `json:"error,omitempty"`
	Results      []registry.Finding        `json:"results,omitempty"`
	AlertsRaised []models.MonitoringAlert  `json:"alerts_raised,omitempty"`
	NextCheck    *time.Time                `json:"next_check,omitempty"`
	Discarded    bool                      `json:"-"`
}

const defaultCheckTimeout = 60 * time.Second

type Service struct {
	store       Store
	checker     registry.Checker
	credentials CredentialFunc
	notifier    Notifier
	timeout     time.Duration
	now         func() time.Time
}

func NewService(store Store, checker registry.Checker, credentials CredentialFunc, notifier Notifier) *Service {
	return &Service{
		store:       store,
		checker:     checker,
		credentials: credentials,
		notifier:    notifier,
		timeout:     defaultCheckTimeout,
		now:         time.Now,
	}
}

// CreateItem registers a new watch. The first check is due immediately so
// the next sweep picks it up.
func (s *Service) CreateItem(ctx context.Context, item *models.MonitoringItem) error {
	item.ID = uuid.New().String()
	item.Status = models.StatusActive
	item.AlertCount = 0
	now := s.now()
	item.NextCheck = &now
	return s.store.CreateItem(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, orgID, id string) (*models.MonitoringItem, error) {
	return s.store.GetItem(ctx, orgID, id)
}

func (s *Service) ListItems(ctx context.Context, orgID string) ([]models.MonitoringItem, error) {
	return s.store.ListItems(ctx, orgID)
}

func (s *Service) UpdateItem(ctx context.Context, item *models.MonitoringItem) error {
	return s.store.UpdateItem(ctx, item)
}

// DeleteItem removes the item and all alerts it raised. A check in flight
// for the item settles against nothing and is discarded.
func (s *Service) DeleteItem(ctx context.Context, orgID, id string) error {
	return s.store.DeleteItemCascade(ctx, orgID, id)
}

func (s *Service) ListAlerts(ctx context.Context, orgID string) ([]models.MonitoringAlert, error) {
	return s.store.ListAlerts(ctx, orgID)
}

func (s *Service) ListAlertsByItem(ctx context.Context, orgID, itemID string) ([]models.MonitoringAlert, error) {
	return s.store.ListAlertsByItem(ctx, orgID, itemID)
}

func (s *Service) DismissAlert(ctx context.Context, orgID, id string) error {
	return s.store.DismissAlert(ctx, orgID, id)
}

func (s *Service) DueItems(ctx context.Context, now time.Time) ([]models.MonitoringItem, error) {
	return s.store.DueItems(ctx, now)
}

// RunCheck drives one full check cycle for an item: claim it into
// checking, call the external source under a deadline, and settle the
// result. A second RunCheck while one is in flight fails the claim with
// ErrCheckInProgress rather than double-counting alerts.
func (s *Service) RunCheck(ctx context.Context, orgID, itemID string) (*CheckReport, error) {
	item, err := s.store.Claim(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Once claimed, the item must always be settled back out of checking,
	// even if the caller goes away mid-check; otherwise it is stranded in
	// a state the sweep never picks up.
	settleCtx := context.WithoutCancel(ctx)

	apiKey := ""
	if s.credentials != nil {
		apiKey, err = s.credentials(checkCtx, orgID)
		if err != nil {
			return s.settleFailure(settleCtx, item, fmt.Sprintf("registry credential unavailable: %v", err))
		}
	}

	outcome, err := s.checker.Check(checkCtx, item, apiKey)
	if err != nil {
		return s.settleFailure(settleCtx, item, err.Error())
	}

	return s.settleSuccess(settleCtx, item, outcome)
}

func (s *Service) settleSuccess(ctx context.Context, item *models.MonitoringItem, outcome *registry.CheckOutcome) (*CheckReport, error) {
	now := s.now()

	nextCheck := outcome.NextCheck
	if nextCheck.IsZero() {
		nextCheck = now.Add(models.FrequencyInterval(item.Frequency))
	}

	raised := make([]models.MonitoringAlert, 0, len(outcome.Alerts))
	for _, draft := range outcome.Alerts {
		raised = append(raised, models.MonitoringAlert{
			ID:               uuid.New().String(),
			OrgID:            item.OrgID,
			Type:             draft.Type,
			Priority:         draft.Priority,
			Title:            draft.Title,
			Description:      draft.Description,
			Keyword:          draft.Keyword,
			Platform:         draft.Platform,
			MonitoringItemID: item.ID,
			// Name snapshot: renaming the item later must not rewrite
			// alerts already raised.
			MonitoringItemName: item.Name,
			DetectedAt:         now,
			Data:               draft.Data,
			ActionRequired:     draft.ActionRequired,
			CreatedAt:          now,
		})
	}

	lastResults, err := json.Marshal(outcome.Results)
	if err != nil {
		return s.settleFailure(ctx, item, fmt.Sprintf("failed to encode results: %v", err))
	}

	applied, err := s.store.Complete(ctx, item.OrgID, item.ID, now, nextCheck, lastResults, raised)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Item was deleted while the check was in flight.
		slog.Info("Discarding check outcome for removed item",
			"org_id", item.OrgID, "item_id", item.ID)
		return &CheckReport{Discarded: true}, nil
	}

	slog.Info("Monitoring check completed",
		"org_id", item.OrgID,
		"item_id", item.ID,
		"results", len(outcome.Results),
		"alerts_raised", len(raised))

	if s.notifier != nil {
		s.notifier.CheckCompleted(ctx, item, raised)
	}

	return &CheckReport{
		Success:      true,
		Results:      outcome.Results,
		AlertsRaised: raised,
		NextCheck:    &nextCheck,
	}, nil
}

func (s *Service) settleFailure(ctx context.Context, item *models.MonitoringItem, message string) (*CheckReport, error) {
	applied, err := s.store.Fail(ctx, item.OrgID, item.ID, message)
	if err != nil {
		return nil, err
	}
	if !applied {
		slog.Info("Discarding check failure for removed item",
			"org_id", item.OrgID, "item_id", item.ID)
		return &CheckReport{Discarded: true}, nil
	}

	slog.Warn("Monitoring check failed",
		"org_id", item.OrgID, "item_id", item.ID, "error", message)

	if s.notifier != nil {
		s.notifier.CheckFailed(ctx, item, message)
	}

	return &CheckReport{Success: false, Error: message}, nil
}
