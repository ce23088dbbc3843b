package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rpe/internal/crypto"
	"rpe/internal/models"
)

type EqualizationLogRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

func NewEqualizationLogRepository(db *sql.DB, crypto *crypto.Service) *EqualizationLogRepository {
	return &EqualizationLogRepository{db: db, crypto: crypto}
}

// GetLatestObservation retrieves the most recent observation entry for a
// collaborator/cycle pair, decrypted, or nil when none exists.
func (r *EqualizationLogRepository) GetLatestObservation(collaboratorID, cycleID string) (*models.EqualizationLog, error) {
	query := `
		SELECT id, collaborator_id, cycle_id, change_type, COALESCE(observation, ''), changed_by_id, created_at
		FROM equalization_logs
		WHERE collaborator_id = $1 AND cycle_id = $2 AND change_type = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var log models.EqualizationLog
	err := r.db.QueryRow(query, collaboratorID, cycleID, models.ChangeTypeObservation).Scan(
		&log.ID, &log.CollaboratorID, &log.CycleID, &log.ChangeType,
		&log.Observation, &log.ChangedByID, &log.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Observation = decryptField(r.crypto, log.Observation, "equalization_log", "observation")
	return &log, nil
}

// UpdateObservationTx replaces the text and author of an existing observation
// entry inside the caller's transaction. The text is encrypted before it
// touches the database.
func (r *EqualizationLogRepository) UpdateObservationTx(tx *sql.Tx, logID, observation, changedByID string) error {
	encrypted, err := r.crypto.Encrypt(observation)
	if err != nil {
		return fmt.Errorf("failed to encrypt observation: %w", err)
	}

	query := `UPDATE equalization_logs SET observation = $2, changed_by_id = $3 WHERE id = $1`
	_, err = tx.Exec(query, logID, encrypted, changedByID)
	return err
}

// InsertObservationTx creates a new observation entry inside the caller's
// transaction. The text is encrypted before it touches the database.
func (r *EqualizationLogRepository) InsertObservationTx(tx *sql.Tx, collaboratorID, cycleID, observation, changedByID string) error {
	encrypted, err := r.crypto.Encrypt(observation)
	if err != nil {
		return fmt.Errorf("failed to encrypt observation: %w", err)
	}

	query := `
		INSERT INTO equalization_logs (id, collaborator_id, cycle_id, change_type, observation, changed_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(query, uuid.NewString(), collaboratorID, cycleID, models.ChangeTypeObservation, encrypted, changedByID)
	return err
}
