package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"rpe/internal/models"
)

type FinalizedEvaluationRepository struct {
	db *sql.DB
}

func NewFinalizedEvaluationRepository(db *sql.DB) *FinalizedEvaluationRepository {
	return &FinalizedEvaluationRepository{db: db}
}

// GetGeneral retrieves the overall ("geral") finalized score for a
// collaborator in a cycle, or nil when the committee has not finalized yet.
func (r *FinalizedEvaluationRepository) GetGeneral(collaboratorID, cycleID string) (*models.FinalizedEvaluation, error) {
	query := `
		SELECT id, collaborator_id, cycle_id, criterion_id, final_score, finalized_by_id, created_at, updated_at
		FROM finalized_evaluations
		WHERE collaborator_id = $1 AND cycle_id = $2 AND criterion_id = $3
	`

	var fe models.FinalizedEvaluation
	err := r.db.QueryRow(query, collaboratorID, cycleID, models.GeneralCriterionID).Scan(
		&fe.ID, &fe.CollaboratorID, &fe.CycleID, &fe.CriterionID,
		&fe.FinalScore, &fe.FinalizedByID, &fe.CreatedAt, &fe.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &fe, nil
}

// EnsureCommitteeCriterion creates the generic committee criterion row if it
// does not exist yet. Idempotent.
func (r *FinalizedEvaluationRepository) EnsureCommitteeCriterion() error {
	query := `
		INSERT INTO evaluation_criteria (id, pillar, criterion_name)
		VALUES ($1, 'Comitê', 'Nota Final do Comitê')
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(query, models.GeneralCriterionID)
	return err
}

// UpsertGeneralTx creates or updates the overall finalized score inside the
// caller's transaction, recording who finalized it.
func (r *FinalizedEvaluationRepository) UpsertGeneralTx(tx *sql.Tx, collaboratorID, cycleID string, finalScore float64, finalizedByID string) error {
	query := `
		INSERT INTO finalized_evaluations (id, collaborator_id, cycle_id, criterion_id, final_score, finalized_by_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (collaborator_id, cycle_id, criterion_id)
		DO UPDATE SET
			final_score = EXCLUDED.final_score,
			finalized_by_id = EXCLUDED.finalized_by_id,
			updated_at = NOW()
	`
	_, err := tx.Exec(query, uuid.NewString(), collaboratorID, cycleID, models.GeneralCriterionID, finalScore, finalizedByID)
	return err
}
