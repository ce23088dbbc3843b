package repository

import (
	"log/slog"

	"rpe/internal/crypto"
)

// decryptField decrypts a stored field value. Failures are logged and the
// field comes back empty; a corrupt column must not abort the whole read.
func decryptField(svc *crypto.Service, value, entity, field string) string {
	if value == "" {
		return ""
	}
	plaintext, err := svc.Decrypt(value)
	if err != nil {
		slog.Error("Failed to decrypt field", "entity", entity, "field", field, "error", err)
		return ""
	}
	return plaintext
}
