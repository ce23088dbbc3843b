package service

import (
	"fmt"

	"rpe/internal/models"
	"rpe/internal/repository"
)

// EqualizationService builds the consolidated evaluation snapshot that feeds
// AI summary generation and the mentor notifications.
type EqualizationService struct {
	users       *repository.UserRepository
	cycles      *repository.CycleRepository
	selfEvals   *repository.SelfEvaluationRepository
	peerEvals   *repository.PeerEvaluationRepository
	leaderEvals *repository.LeaderEvaluationRepository
	finalized   *repository.FinalizedEvaluationRepository
}

// NewEqualizationService creates a new equalization service
func NewEqualizationService(
	users *repository.UserRepository,
	cycles *repository.CycleRepository,
	selfEvals *repository.SelfEvaluationRepository,
	peerEvals *repository.PeerEvaluationRepository,
	leaderEvals *repository.LeaderEvaluationRepository,
	finalized *repository.FinalizedEvaluationRepository,
) *EqualizationService {
	return &EqualizationService{
		users:       users,
		cycles:      cycles,
		selfEvals:   selfEvals,
		peerEvals:   peerEvals,
		leaderEvals: leaderEvals,
		finalized:   finalized,
	}
}

// GetConsolidatedView merges every evaluation source for one collaborator and
// cycle into a single snapshot, free text decrypted. Returns nil when the
// collaborator or cycle does not exist, or when no evaluation data exists for
// the pair at all.
func (s *EqualizationService) GetConsolidatedView(collaboratorID, cycleID string) (*models.ConsolidatedView, error) {
	user, err := s.users.GetByID(collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	cycle, err := s.cycles.GetByID(cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}
	if cycle == nil {
		return nil, nil
	}

	selfDetails, err := s.selfEvals.GetCompletedDetailsByUserAndCycle(collaboratorID, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get self evaluations: %w", err)
	}

	peerDetails, err := s.peerEvals.GetDetailsByEvaluatedAndCycle(collaboratorID, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get peer evaluations: %w", err)
	}

	leaderEval, err := s.leaderEvals.GetByCollaboratorAndCycle(collaboratorID, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leader evaluation: %w", err)
	}

	if len(selfDetails) == 0 && len(peerDetails) == 0 && leaderEval == nil {
		return nil, nil
	}

	finalizedEval, err := s.finalized.GetGeneral(collaboratorID, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get finalized evaluation: %w", err)
	}

	view := &models.ConsolidatedView{
		CollaboratorID:   user.ID,
		CollaboratorName: user.Name,
		CycleID:          cycle.ID,
		CycleName:        cycle.Name,
		LeaderEvaluation: leaderEval,
	}

	for _, d := range selfDetails {
		view.SelfEvaluations = append(view.SelfEvaluations, models.ConsolidatedSelfItem{
			CriterionName: d.CriterionName,
			Score:         d.Score,
			Justification: d.Justification,
		})
	}

	for _, d := range peerDetails {
		view.PeerEvaluations = append(view.PeerEvaluations, models.ConsolidatedPeerItem{
			EvaluatorName:   d.EvaluatorName,
			GeneralScore:    d.GeneralScore,
			PointsToImprove: d.PointsToImprove,
			PointsToExplore: d.PointsToExplore,
		})
	}

	if finalizedEval != nil {
		view.FinalScore = &finalizedEval.FinalScore
	}

	return view, nil
}
