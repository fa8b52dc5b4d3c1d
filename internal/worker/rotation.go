package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"ipfolio/internal/db"
	"ipfolio/internal/queue"
	"ipfolio/internal/security"
)

// HandleCredentialRotation re-encrypts an organization's registry
// credential under the current KMS key and schedules the next rotation.
func (w *Worker) HandleCredentialRotation(ctx context.Context, t *asynq.Task) error {
	var payload queue.CredentialRotationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v", err)
	}

	cred, err := db.GetRegistryCredential(payload.OrgID)
	if err != nil {
		if err == db.ErrNotFound {
			// Credential was deleted; nothing left to rotate.
			slog.Info("Skipping rotation for removed credential", "org_id", payload.OrgID)
			return nil
		}
		return fmt.Errorf("failed to load credential: %v", err)
	}

	plaintext, err := security.DecryptCredential(cred.EncryptedKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt credential: %v", err)
	}

	reencrypted, err := security.EncryptCredential(plaintext)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt credential: %v", err)
	}

	if err := db.MarkCredentialRotated(payload.OrgID, reencrypted); err != nil {
		return fmt.Errorf("failed to update rotation record: %v", err)
	}

	if err := queue.ScheduleCredentialRotation(payload.OrgID); err != nil {
		return fmt.Errorf("failed to schedule next rotation: %v", err)
	}

	slog.Info("Successfully rotated registry credential", "org_id", payload.OrgID)

	return nil
}
