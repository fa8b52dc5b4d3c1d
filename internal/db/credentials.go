package db

import (
	"database/sql"
	"fmt"
	"time"
)

type RegistryCredential struct {
	ID            int64      `db:"id" json:"id"`
	OrgID         string     `db:"org_id" json:"org_id"`
	EncryptedKey  string     `db:"encrypted_key" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastUsedAt    *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	LastRotatedAt *time.Time `db:"last_rotated_at" json:"last_rotated_at,omitempty"`
}

// StoreRegistryCredential saves the KMS-encrypted registry API key for an
// organization, replacing any previous one.
func StoreRegistryCredential(orgID, encryptedKey string) error {
	_, err := DB.Exec(`
		INSERT INTO registry_credentials (org_id, encrypted_key)
		VALUES ($1, $2)
		ON CONFLICT (org_id) DO UPDATE
		SET encrypted_key = $2,
		    last_rotated_at = NULL,
		    created_at = CURRENT_TIMESTAMP
	`, orgID, encryptedKey)
	if err != nil {
		return fmt.Errorf("failed to store registry credential: %w", err)
	}
	return nil
}

func GetRegistryCredential(orgID string) (*RegistryCredential, error) {
	var cred RegistryCredential
	err := DB.Get(&cred, `
		SELECT * FROM registry_credentials WHERE org_id = $1
	`, orgID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry credential: %w", err)
	}
	return &cred, nil
}

func UpdateCredentialLastUsed(orgID string) error {
	_, err := DB.Exec(`
		UPDATE registry_credentials SET last_used_at = CURRENT_TIMESTAMP WHERE org_id = $1
	`, orgID)
	if err != nil {
		return fmt.Errorf("failed to update credential usage: %w", err)
	}
	return nil
}

// MarkCredentialRotated records a completed re-encryption.
func MarkCredentialRotated(orgID, encryptedKey string) error {
	_, err := DB.Exec(`
		UPDATE registry_credentials
		SET encrypted_key = $2, last_rotated_at = CURRENT_TIMESTAMP
		WHERE org_id = $1
	`, orgID, encryptedKey)
	if err != nil {
		return fmt.Errorf("failed to mark credential rotated: %w", err)
	}
	return nil
}

func DeleteRegistryCredential(orgID string) error {
	res, err := DB.Exec(`DELETE FROM registry_credentials WHERE org_id = $1`, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete registry credential: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
