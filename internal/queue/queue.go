package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueMonitoringCheck = "monitoring_check"
	QueueMonitoringSweep = "monitoring_sweep"
)

type MonitoringCheckPayload struct {
	OrgID  string `json:"org_id"`
	ItemID string `json:"item_id"`
}

var (
	client    *asynq.Client
	inspector *asynq.Inspector
)

func RedisOpt() asynq.RedisClientOpt {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	return asynq.RedisClientOpt{Addr: redisAddr}
}

// InitQueue initializes the Redis connection for Asynq
func InitQueue() error {
	redisOpt := RedisOpt()

	client = asynq.NewClient(redisOpt)
	inspector = asynq.NewInspector(redisOpt)

	// Test connection
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	// Recreate client after test
	client = asynq.NewClient(redisOpt)

	slog.Info("Successfully initialized task queue")
	return nil
}

// EnqueueMonitoringCheck creates a task to run one item's check. Unique
// per item while queued, so a sweep cannot stack duplicate checks behind
// a slow source.
func EnqueueMonitoringCheck(payload MonitoringCheckPayload) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %v", err)
	}

	task := asynq.NewTask(QueueMonitoringCheck, payloadBytes)

	info, err := client.Enqueue(task,
		asynq.Queue(QueueMonitoringCheck),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(10*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %v", err)
	}

	return info.ID, nil
}

// GetTaskStatus returns the current status of a check task
func GetTaskStatus(taskID string) (*asynq.TaskInfo, error) {
	info, err := inspector.GetTaskInfo(QueueMonitoringCheck, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task info: %v", err)
	}
	return info, nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}
