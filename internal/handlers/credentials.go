package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ipfolio/internal/db"
	"ipfolio/internal/queue"
	"ipfolio/internal/security"

	"github.com/labstack/echo/v4"
)

type RegistryKeyRequest struct {
	APIKey string `json:"api_key"`
}

// StoreRegistryKey encrypts and saves the org's registry gateway API key
// and schedules its periodic re-encryption.
func StoreRegistryKey(c echo.Context) error {
	var req RegistryKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.APIKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "API key is required"})
	}

	encrypted, err := security.EncryptCredential(req.APIKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to encrypt API key"})
	}
	if err := db.StoreRegistryCredential(orgID(c), encrypted); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store API key"})
	}

	if err := queue.ScheduleCredentialRotation(orgID(c)); err != nil {
		slog.Error("failed to schedule credential rotation", "org_id", orgID(c), "error", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "API key stored successfully"})
}

// GetRegistryKey reports credential metadata, never the key itself.
func GetRegistryKey(c echo.Context) error {
	cred, err := db.GetRegistryCredential(orgID(c))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No registry API key stored"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch API key"})
	}
	return c.JSON(http.StatusOK, cred)
}

// RotateRegistryKey re-encrypts the stored key under the current KMS key.
func RotateRegistryKey(c echo.Context) error {
	cred, err := db.GetRegistryCredential(orgID(c))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No registry API key stored"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch API key"})
	}

	plaintext, err := security.DecryptCredential(cred.EncryptedKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decrypt API key"})
	}
	encrypted, err := security.EncryptCredential(plaintext)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to encrypt API key"})
	}
	if err := db.MarkCredentialRotated(orgID(c), encrypted); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to rotate API key"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "API key rotated successfully"})
}

func DeleteRegistryKey(c echo.Context) error {
	if err := db.DeleteRegistryCredential(orgID(c)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No registry API key stored"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete API key"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "API key deleted"})
}
