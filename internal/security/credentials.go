package security

import (
	"context"
	"log/slog"

	"ipfolio/internal/db"
)

// RegistryAPIKey loads and decrypts the org's registry gateway key. Used
// as the credential source for monitoring checks.
func RegistryAPIKey(ctx context.Context, orgID string) (string, error) {
	cred, err := db.GetRegistryCredential(orgID)
	if err != nil {
		return "", err
	}

	if err := db.UpdateCredentialLastUsed(orgID); err != nil {
		slog.Warn("failed to update credential usage", "org_id", orgID, "error", err)
	}

	return DecryptCredential(cred.EncryptedKey)
}
