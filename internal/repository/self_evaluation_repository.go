package repository

import (
	"database/sql"

	"rpe/internal/crypto"
	"rpe/internal/models"
)

type SelfEvaluationRepository struct {
	db     *sql.DB
	crypto *crypto.Service
}

func NewSelfEvaluationRepository(db *sql.DB, crypto *crypto.Service) *SelfEvaluationRepository {
	return &SelfEvaluationRepository{db: db, crypto: crypto}
}

// GetCompletedByUserAndCycle retrieves the completed per-criterion self scores
// for one user in a cycle. Justifications are decrypted on the way out.
func (r *SelfEvaluationRepository) GetCompletedByUserAndCycle(userID, cycleID string) ([]models.SelfEvaluation, error) {
	query := `
		SELECT id, user_id, cycle_id, criterion_id, score, COALESCE(justification, ''), submission_status, created_at
		FROM self_evaluations
		WHERE user_id = $1 AND cycle_id = $2 AND submission_status = $3
	`

	rows, err := r.db.Query(query, userID, cycleID, models.SubmissionStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []models.SelfEvaluation
	for rows.Next() {
		var ev models.SelfEvaluation
		err := rows.Scan(&ev.ID, &ev.UserID, &ev.CycleID, &ev.CriterionID, &ev.Score, &ev.Justification, &ev.SubmissionStatus, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		ev.Justification = decryptField(r.crypto, ev.Justification, "self_evaluation", "justification")
		evaluations = append(evaluations, ev)
	}

	return evaluations, rows.Err()
}

// CountDistinctCompletedUsers counts the users with at least one completed
// self-evaluation in a cycle.
func (r *SelfEvaluationRepository) CountDistinctCompletedUsers(cycleID string) (int, error) {
	var count int
	query := `
		SELECT COUNT(DISTINCT user_id) FROM self_evaluations
		WHERE cycle_id = $1 AND submission_status = $2
	`
	err := r.db.QueryRow(query, cycleID, models.SubmissionStatusCompleted).Scan(&count)
	return count, err
}

// GetCompletedDetailsByUserAndCycle retrieves one user's completed
// self-evaluations joined with criterion names, for the consolidated view.
func (r *SelfEvaluationRepository) GetCompletedDetailsByUserAndCycle(userID, cycleID string) ([]models.SelfEvaluationDetail, error) {
	query := `
		SELECT se.id, se.user_id, se.cycle_id, se.criterion_id, se.score,
		       COALESCE(se.justification, ''), se.submission_status, se.created_at,
		       u.name, u.email, c.criterion_name
		FROM self_evaluations se
		JOIN users u ON se.user_id = u.id
		JOIN evaluation_criteria c ON se.criterion_id = c.id
		WHERE se.user_id = $1 AND se.cycle_id = $2 AND se.submission_status = $3
		ORDER BY c.criterion_name ASC
	`

	rows, err := r.db.Query(query, userID, cycleID, models.SubmissionStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.SelfEvaluationDetail
	for rows.Next() {
		var d models.SelfEvaluationDetail
		err := rows.Scan(
			&d.ID, &d.UserID, &d.CycleID, &d.CriterionID, &d.Score,
			&d.Justification, &d.SubmissionStatus, &d.CreatedAt,
			&d.UserName, &d.UserEmail, &d.CriterionName,
		)
		if err != nil {
			return nil, err
		}
		d.Justification = decryptField(r.crypto, d.Justification, "self_evaluation", "justification")
		details = append(details, d)
	}

	return details, rows.Err()
}

// ListCompletedByCycleWithDetails retrieves all completed self-evaluations in a
// cycle joined with user identity and criterion name, for export and the
// consolidated view.
func (r *SelfEvaluationRepository) ListCompletedByCycleWithDetails(cycleID string) ([]models.SelfEvaluationDetail, error) {
	query := `
		SELECT se.id, se.user_id, se.cycle_id, se.criterion_id, se.score,
		       COALESCE(se.justification, ''), se.submission_status, se.created_at,
		       u.name, u.email, c.criterion_name
		FROM self_evaluations se
		JOIN users u ON se.user_id = u.id
		JOIN evaluation_criteria c ON se.criterion_id = c.id
		WHERE se.cycle_id = $1 AND se.submission_status = $2
		ORDER BY u.name ASC, c.criterion_name ASC
	`

	rows, err := r.db.Query(query, cycleID, models.SubmissionStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.SelfEvaluationDetail
	for rows.Next() {
		var d models.SelfEvaluationDetail
		err := rows.Scan(
			&d.ID, &d.UserID, &d.CycleID, &d.CriterionID, &d.Score,
			&d.Justification, &d.SubmissionStatus, &d.CreatedAt,
			&d.UserName, &d.UserEmail, &d.CriterionName,
		)
		if err != nil {
			return nil, err
		}
		d.Justification = decryptField(r.crypto, d.Justification, "self_evaluation", "justification")
		details = append(details, d)
	}

	return details, rows.Err()
}
