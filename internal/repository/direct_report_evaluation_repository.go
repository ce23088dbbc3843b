package repository

import (
	"database/sql"

	"rpe/internal/models"
)

type DirectReportEvaluationRepository struct {
	db *sql.DB
}

func NewDirectReportEvaluationRepository(db *sql.DB) *DirectReportEvaluationRepository {
	return &DirectReportEvaluationRepository{db: db}
}

// GetByCollaboratorLeaderAndCycle retrieves the upward evaluation a
// collaborator received from their own leader in a cycle, or nil when none
// exists.
func (r *DirectReportEvaluationRepository) GetByCollaboratorLeaderAndCycle(collaboratorID, leaderID, cycleID string) (*models.DirectReportEvaluation, error) {
	query := `
		SELECT id, collaborator_id, leader_id, cycle_id, vision_score, inspiration_score, development_score, feedback_score, created_at
		FROM direct_report_evaluations
		WHERE collaborator_id = $1 AND leader_id = $2 AND cycle_id = $3
		ORDER BY created_at ASC
		LIMIT 1
	`

	var ev models.DirectReportEvaluation
	err := r.db.QueryRow(query, collaboratorID, leaderID, cycleID).Scan(
		&ev.ID, &ev.CollaboratorID, &ev.LeaderID, &ev.CycleID,
		&ev.VisionScore, &ev.InspirationScore, &ev.DevelopmentScore, &ev.FeedbackScore, &ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ev, nil
}
