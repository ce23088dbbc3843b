package repository

import (
	"database/sql"

	"rpe/internal/crypto"
	"rpe/internal/models"
)

type PeerEvaluationRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

func NewPeerEvaluationRepository(db *sql.DB, crypto *crypto.Service) *PeerEvaluationRepository {
	return &PeerEvaluationRepository{db: db, crypto: crypto}
}

// GetByEvaluatedAndCycle retrieves the peer evaluations targeting one user in a
// cycle. Free-text fields are decrypted on the way out.
func (r *PeerEvaluationRepository) GetByEvaluatedAndCycle(evaluatedUserID, cycleID string) ([]models.PeerEvaluation, error) {
	query := `
		SELECT id, evaluator_user_id, evaluated_user_id, cycle_id, general_score,
		       COALESCE(points_to_improve, ''), COALESCE(points_to_explore, ''), project_id, created_at
		FROM peer_evaluations
		WHERE evaluated_user_id = $1 AND cycle_id = $2
	`

	rows, err := r.db.Query(query, evaluatedUserID, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []models.PeerEvaluation
	for rows.Next() {
		var ev models.PeerEvaluation
		err := rows.Scan(
			&ev.ID, &ev.EvaluatorUserID, &ev.EvaluatedUserID, &ev.CycleID,
			&ev.GeneralScore, &ev.PointsToImprove, &ev.PointsToExplore, &ev.ProjectID, &ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ev.PointsToImprove = decryptField(r.crypto, ev.PointsToImprove, "peer_evaluation", "points_to_improve")
		ev.PointsToExplore = decryptField(r.crypto, ev.PointsToExplore, "peer_evaluation", "points_to_explore")
		evaluations = append(evaluations, ev)
	}

	return evaluations, rows.Err()
}

// GetDetailsByEvaluatedAndCycle retrieves the peer evaluations targeting one
// user joined with evaluator names, for the consolidated view.
func (r *PeerEvaluationRepository) GetDetailsByEvaluatedAndCycle(evaluatedUserID, cycleID string) ([]models.PeerEvaluationDetail, error) {
	query := `
		SELECT pe.id, pe.evaluator_user_id, pe.evaluated_user_id, pe.cycle_id, pe.general_score,
		       COALESCE(pe.points_to_improve, ''), COALESCE(pe.points_to_explore, ''), pe.project_id, pe.created_at,
		       ed.name, ed.email, er.name
		FROM peer_evaluations pe
		JOIN users ed ON pe.evaluated_user_id = ed.id
		JOIN users er ON pe.evaluator_user_id = er.id
		WHERE pe.evaluated_user_id = $1 AND pe.cycle_id = $2
		ORDER BY er.name ASC
	`

	rows, err := r.db.Query(query, evaluatedUserID, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.PeerEvaluationDetail
	for rows.Next() {
		var d models.PeerEvaluationDetail
		err := rows.Scan(
			&d.ID, &d.EvaluatorUserID, &d.EvaluatedUserID, &d.CycleID, &d.GeneralScore,
			&d.PointsToImprove, &d.PointsToExplore, &d.ProjectID, &d.CreatedAt,
			&d.EvaluatedName, &d.EvaluatedEmail, &d.EvaluatorName,
		)
		if err != nil {
			return nil, err
		}
		d.PointsToImprove = decryptField(r.crypto, d.PointsToImprove, "peer_evaluation", "points_to_improve")
		d.PointsToExplore = decryptField(r.crypto, d.PointsToExplore, "peer_evaluation", "points_to_explore")
		details = append(details, d)
	}

	return details, rows.Err()
}

// ListByCycleWithDetails retrieves all peer evaluations in a cycle joined with
// evaluator and evaluated identities, for export and the consolidated view.
func (r *PeerEvaluationRepository) ListByCycleWithDetails(cycleID string) ([]models.PeerEvaluationDetail, error) {
	query := `
		SELECT pe.id, pe.evaluator_user_id, pe.evaluated_user_id, pe.cycle_id, pe.general_score,
		       COALESCE(pe.points_to_improve, ''), COALESCE(pe.points_to_explore, ''), pe.project_id, pe.created_at,
		       ed.name, ed.email, er.name
		FROM peer_evaluations pe
		JOIN users ed ON pe.evaluated_user_id = ed.id
		JOIN users er ON pe.evaluator_user_id = er.id
		WHERE pe.cycle_id = $1
		ORDER BY ed.name ASC
	`

	rows, err := r.db.Query(query, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.PeerEvaluationDetail
	for rows.Next() {
		var d models.PeerEvaluationDetail
		err := rows.Scan(
			&d.ID, &d.EvaluatorUserID, &d.EvaluatedUserID, &d.CycleID, &d.GeneralScore,
			&d.PointsToImprove, &d.PointsToExplore, &d.ProjectID, &d.CreatedAt,
			&d.EvaluatedName, &d.EvaluatedEmail, &d.EvaluatorName,
		)
		if err != nil {
			return nil, err
		}
		d.PointsToImprove = decryptField(r.crypto, d.PointsToImprove, "peer_evaluation", "points_to_improve")
		d.PointsToExplore = decryptField(r.crypto, d.PointsToExplore, "peer_evaluation", "points_to_explore")
		details = append(details, d)
	}

	return details, rows.Err()
}
