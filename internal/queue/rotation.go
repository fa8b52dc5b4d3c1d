package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueCredentialRotation = "credential_rotation"
)

type CredentialRotationPayload struct {
	OrgID string `json:"org_id"`
}

// ScheduleCredentialRotation queues a re-encryption of the organization's
// registry credential under the current KMS key, three months out.
func ScheduleCredentialRotation(orgID string) error {
	payload := CredentialRotationPayload{OrgID: orgID}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	task := asynq.NewTask(QueueCredentialRotation, payloadBytes)

	_, err = client.Enqueue(task,
		asynq.Queue(QueueCredentialRotation),
		asynq.ProcessIn(3*30*24*time.Hour),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue credential rotation task: %v", err)
	}

	return nil
}
