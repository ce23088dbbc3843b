package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"rpe/internal/email"
	"rpe/internal/models"
	"rpe/internal/repository"
)

// panelFanOutLimit bounds how many collaborators have their evaluation
// lookups in flight at once while the panel is assembled.
const panelFanOutLimit = 8

// PanelQuery carries the committee panel filters and pagination
type PanelQuery struct {
	CycleID string
	Search  string
	Track   string
	Page    int
	Limit   int
}

// UpdateEvaluationRequest is the equalization payload; both fields optional,
// but at least one must be present.
type UpdateEvaluationRequest struct {
	FinalScore  *float64 `json:"final_score,omitempty"`
	Observation *string  `json:"observation,omitempty"`
}

// CommitteeService implements the committee equalization workflows: the
// consolidated panel, score finalization, insights and mentorship.
type CommitteeService struct {
	db               *sql.DB
	users            *repository.UserRepository
	cycles           *repository.CycleRepository
	projects         *repository.ProjectRepository
	selfEvals        *repository.SelfEvaluationRepository
	peerEvals        *repository.PeerEvaluationRepository
	leaderEvals      *repository.LeaderEvaluationRepository
	directReports    *repository.DirectReportEvaluationRepository
	finalized        *repository.FinalizedEvaluationRepository
	equalizationLogs *repository.EqualizationLogRepository
	aiSummaries      *repository.AISummaryRepository
	equalization     *EqualizationService
	genAI            *GenAIService
	emailService     *email.Service
}

// NewCommitteeService creates a new committee service
func NewCommitteeService(
	db *sql.DB,
	users *repository.UserRepository,
	cycles *repository.CycleRepository,
	projects *repository.ProjectRepository,
	selfEvals *repository.SelfEvaluationRepository,
	peerEvals *repository.PeerEvaluationRepository,
	leaderEvals *repository.LeaderEvaluationRepository,
	directReports *repository.DirectReportEvaluationRepository,
	finalized *repository.FinalizedEvaluationRepository,
	equalizationLogs *repository.EqualizationLogRepository,
	aiSummaries *repository.AISummaryRepository,
	equalization *EqualizationService,
	genAI *GenAIService,
	emailService *email.Service,
) *CommitteeService {
	return &CommitteeService{
		db:               db,
		users:            users,
		cycles:           cycles,
		projects:         projects,
		selfEvals:        selfEvals,
		peerEvals:        peerEvals,
		leaderEvals:      leaderEvals,
		directReports:    directReports,
		finalized:        finalized,
		equalizationLogs: equalizationLogs,
		aiSummaries:      aiSummaries,
		equalization:     equalization,
		genAI:            genAI,
		emailService:     emailService,
	}
}

// parseCompositeID splits a "<collaboratorId>_<cycleId>" panel row id
func parseCompositeID(evaluationID string) (collaboratorID, cycleID string, err error) {
	parts := strings.SplitN(evaluationID, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: evaluation id must have the form \"userId_cycleId\"", ErrInvalidInput)
	}
	return parts[0], parts[1], nil
}

// lastCycle resolves the most recent cycle by start date
func (s *CommitteeService) lastCycle() (*models.EvaluationCycle, error) {
	cycle, err := s.cycles.GetLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest cycle: %w", err)
	}
	if cycle == nil {
		return nil, fmt.Errorf("%w: no evaluation cycle exists", ErrNotFound)
	}
	return cycle, nil
}

// GetPanel assembles the paginated, filtered committee panel for a cycle.
// Rows with an incomplete evaluation set are dropped silently; pagination is
// computed over the remaining rows.
func (s *CommitteeService) GetPanel(query PanelQuery) (*models.CommitteePanel, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	var cycle *models.EvaluationCycle
	var err error
	if query.CycleID != "" {
		cycle, err = s.cycles.GetByID(query.CycleID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cycle: %w", err)
		}
		if cycle == nil {
			return nil, fmt.Errorf("%w: cycle %s", ErrNotFound, query.CycleID)
		}
	} else {
		cycle, err = s.lastCycle()
		if err != nil {
			return nil, err
		}
	}

	users, err := s.users.ListActiveForPanel(query.Search, query.Track)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}

	rows := make([]*models.CommitteePanelRow, len(users))
	var g errgroup.Group
	g.SetLimit(panelFanOutLimit)

	for i, user := range users {
		g.Go(func() error {
			row, err := s.buildPanelRow(user, cycle)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var completed []models.CommitteePanelRow
	for _, row := range rows {
		if row != nil {
			completed = append(completed, *row)
		}
	}

	totalItems := len(completed)
	totalPages := int(math.Ceil(float64(totalItems) / float64(query.Limit)))

	start := (query.Page - 1) * query.Limit
	if start > totalItems {
		start = totalItems
	}
	end := start + query.Limit
	if end > totalItems {
		end = totalItems
	}

	return &models.CommitteePanel{
		Evaluations: completed[start:end],
		Pagination: models.Pagination{
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			CurrentPage: query.Page,
		},
	}, nil
}

// buildPanelRow consolidates all evaluation sources for one user. It returns
// nil (no error) when the user is not eligible or the cycle is incomplete for
// them: no leader and not a top-level type, or missing mandatory scores.
func (s *CommitteeService) buildPanelRow(user models.PanelUser, cycle *models.EvaluationCycle) (*models.CommitteePanelRow, error) {
	if user.LeaderID == nil && user.UserType != models.UserTypeManager && user.UserType != models.UserTypeHR {
		return nil, nil
	}

	selfEvals, err := s.selfEvals.GetCompletedByUserAndCycle(user.ID, cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get self evaluations for %s: %w", user.ID, err)
	}

	peerEvals, err := s.peerEvals.GetByEvaluatedAndCycle(user.ID, cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get peer evaluations for %s: %w", user.ID, err)
	}

	leaderEval, err := s.leaderEvals.GetByCollaboratorAndCycle(user.ID, cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leader evaluation for %s: %w", user.ID, err)
	}

	var directReportEval *models.DirectReportEvaluation
	if user.LeaderID != nil {
		directReportEval, err = s.directReports.GetByCollaboratorLeaderAndCycle(user.ID, *user.LeaderID, cycle.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get direct-report evaluation for %s: %w", user.ID, err)
		}
	}

	finalizedEval, err := s.finalized.GetGeneral(user.ID, cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get finalized evaluation for %s: %w", user.ID, err)
	}

	observationLog, err := s.equalizationLogs.GetLatestObservation(user.ID, cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get observation for %s: %w", user.ID, err)
	}

	aiSummary, err := s.aiSummaries.GetLatest(user.ID, cycle.ID, models.SummaryTypeEqualization)
	if err != nil {
		return nil, fmt.Errorf("failed to get ai summary for %s: %w", user.ID, err)
	}

	selfScore := AverageSelfScore(selfEvals)
	peerScore := AveragePeerScore(peerEvals)
	managerScore := LeaderCompositeScore(leaderEval)
	directReportScore := DirectReportCompositeScore(directReportEval)

	isCollaborator := user.UserType == models.UserTypeCollaborator
	collaboratorEvalsMissing := isCollaborator && (managerScore == nil || directReportScore == nil)

	if selfScore == nil || peerScore == nil || collaboratorEvalsMissing {
		return nil, nil
	}

	row := &models.CommitteePanelRow{
		ID:                fmt.Sprintf("%s_%s", user.ID, cycle.ID),
		CollaboratorID:    user.ID,
		CollaboratorName:  user.Name,
		CollaboratorRole:  user.PositionRole,
		CycleID:           cycle.ID,
		CycleName:         cycle.Name,
		SelfScore:         selfScore,
		PeerScore:         peerScore,
		ManagerScore:      managerScore,
		DirectReportScore: directReportScore,
		Status:            panelStatus(finalizedEval),
	}

	// A stored score of exactly 0 reads as "not finalized": the row keeps a
	// nil final score and stays pending. Deliberate, matches the workflow's
	// strictly-positive check.
	if finalizedEval != nil && finalizedEval.FinalScore != 0 {
		row.FinalScore = &finalizedEval.FinalScore
	}
	if observationLog != nil {
		row.Observation = observationLog.Observation
	}
	if aiSummary != nil {
		row.EqualizationAISumm = aiSummary.Content
	}

	return row, nil
}

// panelStatus derives the row status from the finalized score. Only a
// strictly positive finalized score counts as equalized.
func panelStatus(fe *models.FinalizedEvaluation) string {
	if fe != nil && fe.FinalScore > 0 {
		return models.EvaluationStatusEqualized
	}
	return models.EvaluationStatusPending
}

// UpdateEvaluation sets or updates a collaborator's final score and/or
// observation for a cycle, atomically, attributed to the acting committee
// member. An empty payload is rejected.
func (s *CommitteeService) UpdateEvaluation(evaluationID string, payload UpdateEvaluationRequest, committeeMemberID string) error {
	collaboratorID, cycleID, err := parseCompositeID(evaluationID)
	if err != nil {
		return err
	}

	if payload.FinalScore == nil && payload.Observation == nil {
		return fmt.Errorf("%w: no data provided for update", ErrInvalidInput)
	}

	if payload.FinalScore != nil {
		if err := s.finalized.EnsureCommitteeCriterion(); err != nil {
			return fmt.Errorf("failed to ensure committee criterion: %w", err)
		}
	}

	var existingLog *models.EqualizationLog
	if payload.Observation != nil {
		existingLog, err = s.equalizationLogs.GetLatestObservation(collaboratorID, cycleID)
		if err != nil {
			return fmt.Errorf("failed to get existing observation: %w", err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if payload.FinalScore != nil {
		if err := s.finalized.UpsertGeneralTx(tx, collaboratorID, cycleID, *payload.FinalScore, committeeMemberID); err != nil {
			return fmt.Errorf("failed to upsert final score: %w", err)
		}
	}

	if payload.Observation != nil {
		switch {
		case existingLog != nil:
			if err := s.equalizationLogs.UpdateObservationTx(tx, existingLog.ID, *payload.Observation, committeeMemberID); err != nil {
				return fmt.Errorf("failed to update observation: %w", err)
			}
		case *payload.Observation != "":
			if err := s.equalizationLogs.InsertObservationTx(tx, collaboratorID, cycleID, *payload.Observation, committeeMemberID); err != nil {
				return fmt.Errorf("failed to insert observation: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit equalization update: %w", err)
	}

	if payload.FinalScore != nil {
		s.notifyMentorBrutalFacts(collaboratorID, cycleID)
	}

	return nil
}

// notifyMentorBrutalFacts sends the post-equalization talking points to the
// collaborator's mentor, when one is assigned. Best effort: failures are
// logged and never surface to the committee member.
func (s *CommitteeService) notifyMentorBrutalFacts(collaboratorID, cycleID string) {
	collaborator, err := s.users.GetByID(collaboratorID)
	if err != nil || collaborator == nil || collaborator.MentorID == nil {
		if err != nil {
			slog.Error("Failed to load collaborator for mentor notification", "collaborator_id", collaboratorID, "error", err)
		}
		return
	}

	mentor, err := s.users.GetByID(*collaborator.MentorID)
	if err != nil || mentor == nil {
		if err != nil {
			slog.Error("Failed to load mentor for notification", "mentor_id", *collaborator.MentorID, "error", err)
		}
		return
	}

	view, err := s.equalization.GetConsolidatedView(collaboratorID, cycleID)
	if err != nil || view == nil {
		if err != nil {
			slog.Error("Failed to build consolidated view for brutal facts", "collaborator_id", collaboratorID, "error", err)
		}
		return
	}

	facts, err := s.genAI.ExtractBrutalFacts(view)
	if err != nil {
		slog.Error("Failed to extract brutal facts", "collaborator_id", collaboratorID, "error", err)
		return
	}

	if err := s.emailService.SendBrutalFactsEmail(mentor.Email, mentor.Name, collaborator.Name, view.CycleName, facts); err != nil {
		slog.Error("Failed to send brutal facts email", "mentor_email", mentor.Email, "error", err)
	}
}

// GetLastCycleSummary summarizes the most recent cycle for the dashboard
func (s *CommitteeService) GetLastCycleSummary() (*models.CommitteeSummary, error) {
	cycle, err := s.lastCycle()
	if err != nil {
		return nil, err
	}

	totalCollaborators, err := s.users.CountActiveNonAdmin()
	if err != nil {
		return nil, fmt.Errorf("failed to count collaborators: %w", err)
	}

	leaderEvals, err := s.leaderEvals.ListByCycle(cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leader evaluations: %w", err)
	}

	readyEvaluations, err := s.selfEvals.CountDistinctCompletedUsers(cycle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ready evaluations: %w", err)
	}

	pending := totalCollaborators - readyEvaluations
	if pending < 0 {
		pending = 0
	}

	return &models.CommitteeSummary{
		TotalCollaborators: totalCollaborators,
		ReadyEvaluations:   readyEvaluations,
		PendingEvaluations: pending,
		OverallAverage:     CycleOverallAverage(leaderEvals),
	}, nil
}

// GetInsights computes cross-cycle committee statistics, most recent cycle
// first, plus a global summary weighted by leader-evaluation counts.
func (s *CommitteeService) GetInsights() (*models.CommitteeInsights, error) {
	cycles, err := s.cycles.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	if len(cycles) == 0 {
		return nil, fmt.Errorf("%w: no evaluation cycle exists", ErrNotFound)
	}

	activeCollaborators, err := s.users.CountActiveNonAdmin()
	if err != nil {
		return nil, fmt.Errorf("failed to count collaborators: %w", err)
	}

	var insights []models.CycleInsight
	var totalScoreSum float64
	var totalLeaderEvaluations int
	var totalProjects int
	var activeProjects int
	var openCycleSeen bool

	for _, cycle := range cycles {
		leaderEvals, err := s.leaderEvals.ListByCycle(cycle.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list leader evaluations for cycle %s: %w", cycle.ID, err)
		}

		readyEvaluations, err := s.selfEvals.CountDistinctCompletedUsers(cycle.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count ready evaluations for cycle %s: %w", cycle.ID, err)
		}

		projectsInCycle, err := s.projects.CountByCycle(cycle.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count projects for cycle %s: %w", cycle.ID, err)
		}

		for _, ev := range leaderEvals {
			totalScoreSum += ev.DeliveryScore + ev.ProactivityScore + ev.CollaborationScore + ev.SkillScore
		}
		totalLeaderEvaluations += len(leaderEvals)
		totalProjects += projectsInCycle

		// Cycles come most recent first; only the newest open cycle counts,
		// even when it has no projects.
		if cycle.Status == models.CycleStatusOpen && !openCycleSeen {
			activeProjects = projectsInCycle
			openCycleSeen = true
		}

		pending := activeCollaborators - readyEvaluations
		if pending < 0 {
			pending = 0
		}

		insights = append(insights, models.CycleInsight{
			CycleID:            cycle.ID,
			CycleName:          cycle.Name,
			OverallAverage:     CycleOverallAverage(leaderEvals),
			TotalCollaborators: activeCollaborators,
			ReadyEvaluations:   readyEvaluations,
			PendingEvaluations: pending,
			ProjectsInCycle:    projectsInCycle,
		})
	}

	var overallScore float64
	if totalLeaderEvaluations > 0 {
		overallScore = round2(totalScoreSum / (float64(totalLeaderEvaluations) * 4))
	}

	return &models.CommitteeInsights{
		Cycles:              insights,
		CyclesAmount:        len(cycles),
		Score:               overallScore,
		ProjectsAmount:      totalProjects,
		ActiveProjects:      activeProjects,
		ActiveCollaborators: activeCollaborators,
	}, nil
}

// GetSingleAISummary returns the cached equalization summary for a panel row,
// generating and persisting it on first request. The cache is keyed by
// (collaborator, cycle, type); concurrent first requests converge on one row.
func (s *CommitteeService) GetSingleAISummary(evaluationID string, requestor *models.User) (string, error) {
	collaboratorID, cycleID, err := parseCompositeID(evaluationID)
	if err != nil {
		return "", err
	}

	existing, err := s.aiSummaries.GetLatest(collaboratorID, cycleID, models.SummaryTypeEqualization)
	if err != nil {
		return "", fmt.Errorf("failed to get cached summary: %w", err)
	}
	if existing != nil {
		return existing.Content, nil
	}

	view, err := s.equalization.GetConsolidatedView(collaboratorID, cycleID)
	if err != nil {
		return "", fmt.Errorf("failed to build consolidated view: %w", err)
	}
	if view == nil {
		return "", fmt.Errorf("%w: no evaluation data for this collaborator and cycle", ErrNotFound)
	}

	generated, err := s.genAI.GenerateEqualizationSummary(view)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	summary, err := s.aiSummaries.CreateIfAbsent(collaboratorID, cycleID, models.SummaryTypeEqualization, generated, requestor.ID)
	if err != nil {
		return "", fmt.Errorf("failed to persist summary: %w", err)
	}

	if err := s.emailService.SendSummaryEmail(requestor.Email, requestor.Name, view.CollaboratorName, view.CycleName, summary.Content); err != nil {
		slog.Error("Failed to send summary email", "requestor_email", requestor.Email, "error", err)
	}

	return summary.Content, nil
}

// SetMentor assigns a mentor to a user. Only committee members and admins can
// act as mentors.
func (s *CommitteeService) SetMentor(userID string, mentorID *string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: collaborator %s", ErrNotFound, userID)
	}

	if mentorID != nil {
		mentor, err := s.users.GetByID(*mentorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get mentor: %w", err)
		}
		if mentor == nil {
			return nil, fmt.Errorf("%w: mentor %s", ErrNotFound, *mentorID)
		}
		if mentor.UserType != models.UserTypeCommittee && mentor.UserType != models.UserTypeAdmin {
			return nil, fmt.Errorf("%w: user %s lacks the committee permission required to mentor", ErrForbidden, mentor.Name)
		}
	}

	updated, err := s.users.SetMentor(userID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to set mentor: %w", err)
	}

	return updated, nil
}

// RemoveMentor clears a user's mentor assignment. A user without a mentor is
// returned unchanged.
func (s *CommitteeService) RemoveMentor(userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: collaborator %s", ErrNotFound, userID)
	}
	if user.MentorID == nil {
		return user, nil
	}

	return s.users.SetMentor(userID, nil)
}

// GetMentees lists the users mentored by the given user, ordered by name
func (s *CommitteeService) GetMentees(mentorID string) ([]models.TeamMember, error) {
	mentor, err := s.users.GetByID(mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}
	if mentor == nil {
		return nil, fmt.Errorf("%w: mentor %s", ErrNotFound, mentorID)
	}

	mentees, err := s.users.GetMentees(mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentees: %w", err)
	}

	return mentees, nil
}
