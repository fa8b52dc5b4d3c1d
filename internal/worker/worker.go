package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"ipfolio/internal/db"
	"ipfolio/internal/monitoring"
	"ipfolio/internal/queue"
)

type Worker struct {
	server  *asynq.Server
	monitor *monitoring.Service
}

func NewWorker(monitor *monitoring.Service) *Worker {
	server := asynq.NewServer(
		queue.RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queue.QueueMonitoringCheck:    10,
				queue.QueueMonitoringSweep:    2,
				queue.QueueCredentialRotation: 1,
			},
		},
	)

	return &Worker{
		server:  server,
		monitor: monitor,
	}
}

func (w *Worker) Start(ctx context.Context) error {

	mux := asynq.NewServeMux()

	mux.HandleFunc(queue.QueueMonitoringCheck, w.handleMonitoringCheck)
	mux.HandleFunc(queue.QueueMonitoringSweep, w.handleMonitoringSweep)
	mux.HandleFunc(queue.QueueCredentialRotation, w.HandleCredentialRotation)

	slog.Info("Starting worker",
		"queues", []string{queue.QueueMonitoringCheck, queue.QueueMonitoringSweep, queue.QueueCredentialRotation},
		"concurrency", 10)

	if err := w.server.Start(mux); err != nil {
		return err
	}

	slog.Info("Worker started successfully")

	<-ctx.Done()

	w.server.Stop()
	slog.Info("Worker stopped")
	return nil
}

func (w *Worker) handleMonitoringCheck(ctx context.Context, t *asynq.Task) error {
	var payload queue.MonitoringCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	report, err := w.monitor.RunCheck(ctx, payload.OrgID, payload.ItemID)
	if err != nil {
		// A vanished, paused or already-running item is not a task
		// failure; retrying would not help.
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrItemPaused) || errors.Is(err, db.ErrCheckInProgress) {
			slog.Info("Skipping monitoring check",
				"org_id", payload.OrgID, "item_id", payload.ItemID, "reason", err)
			return nil
		}
		slog.Error("Monitoring check errored", "error", err,
			"org_id", payload.OrgID, "item_id", payload.ItemID)
		return err
	}

	if report.Discarded {
		return nil
	}

	if !report.Success {
		// The failure is already recorded on the item; surfacing it here
		// lets asynq retry up to the task's limit.
		return fmt.Errorf("check failed for item %s: %s", payload.ItemID, report.Error)
	}

	slog.Info("Successfully processed monitoring check",
		"org_id", payload.OrgID,
		"item_id", payload.ItemID,
		"alerts_raised", len(report.AlertsRaised),
	)

	return nil
}

// handleMonitoringSweep enqueues one check task per item whose next check
// time has arrived across all organizations.
func (w *Worker) handleMonitoringSweep(ctx context.Context, t *asynq.Task) error {
	due, err := w.monitor.DueItems(ctx, time.Now())
	if err != nil {
		slog.Error("Failed to list due monitoring items", "error", err)
		return err
	}

	enqueued := 0
	for _, item := range due {
		if _, err := queue.EnqueueMonitoringCheck(queue.MonitoringCheckPayload{
			OrgID:  item.OrgID,
			ItemID: item.ID,
		}); err != nil {
			slog.Error("Failed to enqueue monitoring check", "error", err, "item_id", item.ID)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		slog.Info("Monitoring sweep enqueued checks", "due", len(due), "enqueued", enqueued)
	}

	return nil
}
