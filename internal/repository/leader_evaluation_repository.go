package repository

import (
	"database/sql"

	"rpe/internal/crypto"
	"rpe/internal/models"
)

type LeaderEvaluationRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

func NewLeaderEvaluationRepository(db *sql.DB, crypto *crypto.Service) *LeaderEvaluationRepository {
	return &LeaderEvaluationRepository{db: db, crypto: crypto}
}

const leaderEvaluationColumns = `id, leader_id, collaborator_id, cycle_id, delivery_score, proactivity_score, collaboration_score, skill_score, COALESCE(justification, ''), created_at`

// GetByCollaboratorAndCycle retrieves the leader evaluation of a collaborator
// in a cycle, or nil when none exists. Business logic expects at most one row;
// the oldest wins when duplicates slipped in.
func (r *LeaderEvaluationRepository) GetByCollaboratorAndCycle(collaboratorID, cycleID string) (*models.LeaderEvaluation, error) {
	query := `
		SELECT ` + leaderEvaluationColumns + `
		FROM leader_evaluations
		WHERE collaborator_id = $1 AND cycle_id = $2
		ORDER BY created_at ASC
		LIMIT 1
	`

	var ev models.LeaderEvaluation
	err := r.db.QueryRow(query, collaboratorID, cycleID).Scan(
		&ev.ID, &ev.LeaderID, &ev.CollaboratorID, &ev.CycleID,
		&ev.DeliveryScore, &ev.ProactivityScore, &ev.CollaborationScore, &ev.SkillScore,
		&ev.Justification, &ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ev.Justification = decryptField(r.crypto, ev.Justification, "leader_evaluation", "justification")
	return &ev, nil
}

// ListByCycle retrieves all leader evaluations in a cycle. Justifications stay
// encrypted here; the insights path only reads the sub-scores.
func (r *LeaderEvaluationRepository) ListByCycle(cycleID string) ([]models.LeaderEvaluation, error) {
	query := `
		SELECT id, leader_id, collaborator_id, cycle_id, delivery_score, proactivity_score, collaboration_score, skill_score, created_at
		FROM leader_evaluations
		WHERE cycle_id = $1
	`

	rows, err := r.db.Query(query, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []models.LeaderEvaluation
	for rows.Next() {
		var ev models.LeaderEvaluation
		err := rows.Scan(
			&ev.ID, &ev.LeaderID, &ev.CollaboratorID, &ev.CycleID,
			&ev.DeliveryScore, &ev.ProactivityScore, &ev.CollaborationScore, &ev.SkillScore, &ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, ev)
	}

	return evaluations, rows.Err()
}

// ListByCycleWithDetails retrieves all leader evaluations in a cycle joined
// with collaborator identity, justification decrypted, for export.
func (r *LeaderEvaluationRepository) ListByCycleWithDetails(cycleID string) ([]models.LeaderEvaluationDetail, error) {
	query := `
		SELECT le.id, le.leader_id, le.collaborator_id, le.cycle_id,
		       le.delivery_score, le.proactivity_score, le.collaboration_score, le.skill_score,
		       COALESCE(le.justification, ''), le.created_at,
		       u.name, u.email
		FROM leader_evaluations le
		JOIN users u ON le.collaborator_id = u.id
		WHERE le.cycle_id = $1
		ORDER BY u.name ASC
	`

	rows, err := r.db.Query(query, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.LeaderEvaluationDetail
	for rows.Next() {
		var d models.LeaderEvaluationDetail
		err := rows.Scan(
			&d.ID, &d.LeaderID, &d.CollaboratorID, &d.CycleID,
			&d.DeliveryScore, &d.ProactivityScore, &d.CollaborationScore, &d.SkillScore,
			&d.Justification, &d.CreatedAt,
			&d.CollaboratorName, &d.CollaboratorEmail,
		)
		if err != nil {
			return nil, err
		}
		d.Justification = decryptField(r.crypto, d.Justification, "leader_evaluation", "justification")
		details = append(details, d)
	}

	return details, rows.Err()
}
