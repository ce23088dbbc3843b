package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rpe/internal/crypto"
	"rpe/internal/models"
)

type AISummaryRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

func NewAISummaryRepository(db *sql.DB, crypto *crypto.Service) *AISummaryRepository {
	return &AISummaryRepository{db: db, crypto: crypto}
}

const aiSummaryColumns = `id, collaborator_id, cycle_id, summary_type, content, generated_by_id, created_at`

// GetLatest retrieves the cached summary of a given type for a
// collaborator/cycle pair, decrypted, or nil when none exists.
func (r *AISummaryRepository) GetLatest(collaboratorID, cycleID, summaryType string) (*models.AISummary, error) {
	query := `
		SELECT ` + aiSummaryColumns + `
		FROM ai_summaries
		WHERE collaborator_id = $1 AND cycle_id = $2 AND summary_type = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var summary models.AISummary
	err := r.db.QueryRow(query, collaboratorID, cycleID, summaryType).Scan(
		&summary.ID, &summary.CollaboratorID, &summary.CycleID, &summary.SummaryType,
		&summary.Content, &summary.GeneratedByID, &summary.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary.Content = decryptField(r.crypto, summary.Content, "ai_summary", "content")
	return &summary, nil
}

// CreateIfAbsent persists a freshly generated summary, encrypted. The unique
// index on (collaborator, cycle, type) makes concurrent generators converge on
// a single row: on conflict nothing is written and the surviving row is
// returned instead.
func (r *AISummaryRepository) CreateIfAbsent(collaboratorID, cycleID, summaryType, content, generatedByID string) (*models.AISummary, error) {
	encrypted, err := r.crypto.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt summary: %w", err)
	}

	query := `
		INSERT INTO ai_summaries (id, collaborator_id, cycle_id, summary_type, content, generated_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (collaborator_id, cycle_id, summary_type) DO NOTHING
	`
	if _, err := r.db.Exec(query, uuid.NewString(), collaboratorID, cycleID, summaryType, encrypted, generatedByID); err != nil {
		return nil, err
	}

	summary, err := r.GetLatest(collaboratorID, cycleID, summaryType)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, fmt.Errorf("summary vanished after insert")
	}

	return summary, nil
}
