package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ipfolio/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrCheckInProgress = errors.New("check already in progress")
	ErrItemPaused      = errors.New("monitoring item is paused")
)

// MonitoringStore is the Postgres repository for monitoring items and the
// alerts their checks raise. A struct rather than package funcs so the
// check lifecycle can be exercised against a fake in tests.
type MonitoringStore struct{}

func NewMonitoringStore() *MonitoringStore {
	return &MonitoringStore{}
}

func (s *MonitoringStore) CreateItem(ctx context.Context, item *models.MonitoringItem) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO monitoring_items
			(id, org_id, name, type, keywords, frequency, status, next_check, config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, item.ID, item.OrgID, item.Name, item.Type, item.Keywords, item.Frequency,
		item.Status, item.NextCheck, item.Config)
	if err != nil {
		return fmt.Errorf("failed to create monitoring item: %w", err)
	}
	return nil
}

func (s *MonitoringStore) GetItem(ctx context.Context, orgID, id string) (*models.MonitoringItem, error) {
	var item models.MonitoringItem
	err := DB.GetContext(ctx, &item, `
		SELECT * FROM monitoring_items WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monitoring item: %w", err)
	}
	return &item, nil
}

func (s *MonitoringStore) ListItems(ctx context.Context, orgID string) ([]models.MonitoringItem, error) {
	items := []models.MonitoringItem{}
	err := DB.SelectContext(ctx, &items, `
		SELECT * FROM monitoring_items WHERE org_id = $1 ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitoring items: %w", err)
	}
	return items, nil
}

// UpdateItem rewrites the user-editable fields. Status may only move
// between active and paused here; the check lifecycle owns the rest.
func (s *MonitoringStore) UpdateItem(ctx context.Context, item *models.MonitoringItem) error {
	res, err := DB.ExecContext(ctx, `
		UPDATE monitoring_items
		SET name = $3, keywords = $4, frequency = $5, config = $6,
		    status = CASE WHEN $7 IN ('active', 'paused') AND status IN ('active', 'paused', 'error')
		                  THEN $7 ELSE status END
		WHERE org_id = $1 AND id = $2
	`, item.OrgID, item.ID, item.Name, item.Keywords, item.Frequency, item.Config, item.Status)
	if err != nil {
		return fmt.Errorf("failed to update monitoring item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItemCascade removes the item and every alert it raised in one
// transaction. An alert must never outlive its item.
func (s *MonitoringStore) DeleteItemCascade(ctx context.Context, orgID, id string) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM monitoring_alerts WHERE org_id = $1 AND monitoring_item_id = $2
	`, orgID, id); err != nil {
		return fmt.Errorf("failed to delete monitoring alerts: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM monitoring_items WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete monitoring item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Claim moves an item into checking. Only active and error items can be
// claimed; a concurrent claim loses the conditional update and is told why.
func (s *MonitoringStore) Claim(ctx context.Context, orgID, id string) (*models.MonitoringItem, error) {
	var item models.MonitoringItem
	err := DB.GetContext(ctx, &item, `
		UPDATE monitoring_items
		SET status = 'checking'
		WHERE org_id = $1 AND id = $2 AND status IN ('active', 'error')
		RETURNING *
	`, orgID, id)
	if err == nil {
		return &item, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to claim monitoring item: %w", err)
	}

	// The update matched nothing: missing, paused, or already checking.
	current, getErr := s.GetItem(ctx, orgID, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status == models.StatusPaused {
		return nil, ErrItemPaused
	}
	return nil, ErrCheckInProgress
}

// Complete settles a successful check and persists the alerts it raised
// in the same transaction. The status guard means a check that settles
// after its item was deleted matches zero rows; the transaction rolls back
// and the caller discards the outcome, so no alert can outlive its item.
// alert_count is bumped by the number of alerts raised, never recomputed.
func (s *MonitoringStore) Complete(ctx context.Context, orgID, id string, checkedAt, nextCheck time.Time, lastResults json.RawMessage, alerts []models.MonitoringAlert) (bool, error) {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE monitoring_items
		SET status = 'active',
		    last_checked = $3,
		    next_check = $4,
		    last_results = $5,
		    alert_count = alert_count + $6,
		    last_error = NULL
		WHERE org_id = $1 AND id = $2 AND status = 'checking'
	`, orgID, id, checkedAt, nextCheck, lastResults, len(alerts))
	if err != nil {
		return false, fmt.Errorf("failed to complete check: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}

	for i := range alerts {
		if err := s.insertAlert(ctx, tx, &alerts[i]); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit check completion: %w", err)
	}
	return true, nil
}

// Fail settles a failed check. last_checked and next_check are left as
// they were so the item stays due for the next sweep.
func (s *MonitoringStore) Fail(ctx context.Context, orgID, id, message string) (bool, error) {
	res, err := DB.ExecContext(ctx, `
		UPDATE monitoring_items
		SET status = 'error', last_error = $3
		WHERE org_id = $1 AND id = $2 AND status = 'checking'
	`, orgID, id, message)
	if err != nil {
		return false, fmt.Errorf("failed to record check failure: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DueItems returns active items across all organizations whose next check
// time has arrived. Used by the periodic sweep.
func (s *MonitoringStore) DueItems(ctx context.Context, now time.Time) ([]models.MonitoringItem, error) {
	items := []models.MonitoringItem{}
	err := DB.SelectContext(ctx, &items, `
		SELECT * FROM monitoring_items
		WHERE status = 'active' AND next_check IS NOT NULL AND next_check <= $1
		ORDER BY next_check
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due monitoring items: %w", err)
	}
	return items, nil
}

func (s *MonitoringStore) insertAlert(ctx context.Context, tx *sqlx.Tx, alert *models.MonitoringAlert) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO monitoring_alerts
			(id, org_id, type, priority, title, description, keyword, platform,
			 monitoring_item_id, monitoring_item_name, detected_at, data, action_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, alert.ID, alert.OrgID, alert.Type, alert.Priority, alert.Title, alert.Description,
		alert.Keyword, alert.Platform, alert.MonitoringItemID, alert.MonitoringItemName,
		alert.DetectedAt, alert.Data, alert.ActionRequired)
	if err != nil {
		return fmt.Errorf("failed to insert monitoring alert: %w", err)
	}
	return nil
}

func (s *MonitoringStore) ListAlerts(ctx context.Context, orgID string) ([]models.MonitoringAlert, error) {
	alerts := []models.MonitoringAlert{}
	err := DB.SelectContext(ctx, &alerts, `
		SELECT * FROM monitoring_alerts WHERE org_id = $1 ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitoring alerts: %w", err)
	}
	return alerts, nil
}

func (s *MonitoringStore) ListAlertsByItem(ctx context.Context, orgID, itemID string) ([]models.MonitoringAlert, error) {
	alerts := []models.MonitoringAlert{}
	err := DB.SelectContext(ctx, &alerts, `
		SELECT * FROM monitoring_alerts
		WHERE org_id = $1 AND monitoring_item_id = $2
		ORDER BY created_at DESC
	`, orgID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitoring alerts: %w", err)
	}
	return alerts, nil
}

// DismissAlert is the only way a monitoring alert goes away short of its
// item being deleted.
func (s *MonitoringStore) DismissAlert(ctx context.Context, orgID, id string) error {
	res, err := DB.ExecContext(ctx, `
		DELETE FROM monitoring_alerts WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss monitoring alert: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
