package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpe/internal/config"
	"rpe/internal/crypto"
	"rpe/internal/email"
	"rpe/internal/models"
	"rpe/internal/repository"
)

type committeeTestEnv struct {
	svc    *CommitteeService
	mock   sqlmock.Sqlmock
	crypto *crypto.Service
}

func newCommitteeTestEnv(t *testing.T) *committeeTestEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cryptoSvc, err := crypto.NewService("unit-test-secret")
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	cycles := repository.NewCycleRepository(db)
	projects := repository.NewProjectRepository(db)
	selfEvals := repository.NewSelfEvaluationRepository(db, cryptoSvc)
	peerEvals := repository.NewPeerEvaluationRepository(db, cryptoSvc)
	leaderEvals := repository.NewLeaderEvaluationRepository(db, cryptoSvc)
	directReports := repository.NewDirectReportEvaluationRepository(db)
	finalized := repository.NewFinalizedEvaluationRepository(db)
	logs := repository.NewEqualizationLogRepository(db, cryptoSvc)
	summaries := repository.NewAISummaryRepository(db, cryptoSvc)

	equalization := NewEqualizationService(users, cycles, selfEvals, peerEvals, leaderEvals, finalized)
	genAI := NewGenAIService("http://localhost:1", "test", false)
	emailSvc := email.NewService(&config.EmailConfig{Enabled: false})

	svc := NewCommitteeService(
		db,
		users, cycles, projects,
		selfEvals, peerEvals, leaderEvals, directReports,
		finalized, logs, summaries,
		equalization, genAI, emailSvc,
	)

	return &committeeTestEnv{svc: svc, mock: mock, crypto: cryptoSvc}
}

func cycleRows(id, name, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "start_date", "status"}).
		AddRow(id, name, time.Now(), status)
}

func panelUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "user_type", "leader_id", "position_role"})
}

func selfEvalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "cycle_id", "criterion_id", "score", "justification", "submission_status", "created_at"})
}

func peerEvalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "evaluator_user_id", "evaluated_user_id", "cycle_id", "general_score", "points_to_improve", "points_to_explore", "project_id", "created_at"})
}

func leaderEvalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "leader_id", "collaborator_id", "cycle_id", "delivery_score", "proactivity_score", "collaboration_score", "skill_score", "justification", "created_at"})
}

func directReportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "collaborator_id", "leader_id", "cycle_id", "vision_score", "inspiration_score", "development_score", "feedback_score", "created_at"})
}

func finalizedRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "collaborator_id", "cycle_id", "criterion_id", "final_score", "finalized_by_id", "created_at", "updated_at"})
}

func observationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "collaborator_id", "cycle_id", "change_type", "observation", "changed_by_id", "created_at"})
}

func aiSummaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "collaborator_id", "cycle_id", "summary_type", "content", "generated_by_id", "created_at"})
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "user_type", "is_active", "leader_id", "mentor_id", "created_at", "updated_at"})
}

// expectPanelRowQueries queues the seven per-collaborator lookups the panel
// builder issues, in order.
func expectPanelRowQueries(env *committeeTestEnv, withDirectReport bool, finalized *sqlmock.Rows) {
	env.mock.ExpectQuery("FROM self_evaluations").
		WithArgs("user-1", "cycle-1", models.SubmissionStatusCompleted).
		WillReturnRows(selfEvalRows().
			AddRow("se-1", "user-1", "cycle-1", "crit-1", 8.0, "", models.SubmissionStatusCompleted, time.Now()).
			AddRow("se-2", "user-1", "cycle-1", "crit-2", 9.0, "", models.SubmissionStatusCompleted, time.Now()))

	env.mock.ExpectQuery("FROM peer_evaluations").
		WithArgs("user-1", "cycle-1").
		WillReturnRows(peerEvalRows().
			AddRow("pe-1", "peer-1", "user-1", "cycle-1", 7.5, "", "", nil, time.Now()))

	env.mock.ExpectQuery("FROM leader_evaluations").
		WithArgs("user-1", "cycle-1").
		WillReturnRows(leaderEvalRows().
			AddRow("le-1", "leader-1", "user-1", "cycle-1", 8.0, 8.0, 8.0, 8.0, "", time.Now()))

	drRows := directReportRows()
	if withDirectReport {
		drRows.AddRow("dr-1", "user-1", "leader-1", "cycle-1", 8.0, 8.0, 8.0, 8.0, time.Now())
	}
	env.mock.ExpectQuery("FROM direct_report_evaluations").
		WithArgs("user-1", "leader-1", "cycle-1").
		WillReturnRows(drRows)

	env.mock.ExpectQuery("FROM finalized_evaluations").
		WithArgs("user-1", "cycle-1", models.GeneralCriterionID).
		WillReturnRows(finalized)

	env.mock.ExpectQuery("FROM equalization_logs").
		WithArgs("user-1", "cycle-1", models.ChangeTypeObservation).
		WillReturnRows(observationRows())

	env.mock.ExpectQuery("FROM ai_summaries").
		WithArgs("user-1", "cycle-1", models.SummaryTypeEqualization).
		WillReturnRows(aiSummaryRows())
}

func TestGetPanelIncludesCompleteCollaborator(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("cycle-1").
		WillReturnRows(cycleRows("cycle-1", "Ciclo 2024.1", models.CycleStatusOpen))

	env.mock.ExpectQuery("FROM users u").
		WillReturnRows(panelUserRows().
			AddRow("user-1", "Ana Souza", models.UserTypeCollaborator, "leader-1", "Desenvolvedora"))

	expectPanelRowQueries(env, true, finalizedRows())

	panel, err := env.svc.GetPanel(PanelQuery{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, panel.Evaluations, 1)

	row := panel.Evaluations[0]
	assert.Equal(t, "user-1_cycle-1", row.ID)
	assert.Equal(t, "Ana Souza", row.CollaboratorName)
	assert.Equal(t, "Desenvolvedora", row.CollaboratorRole)
	require.NotNil(t, row.SelfScore)
	assert.Equal(t, 8.5, *row.SelfScore)
	require.NotNil(t, row.PeerScore)
	assert.Equal(t, 7.5, *row.PeerScore)
	require.NotNil(t, row.ManagerScore)
	assert.Equal(t, 8.0, *row.ManagerScore)
	require.NotNil(t, row.DirectReportScore)
	assert.Equal(t, 8.0, *row.DirectReportScore)
	assert.Nil(t, row.FinalScore)
	assert.Equal(t, models.EvaluationStatusPending, row.Status)

	assert.Equal(t, 1, panel.Pagination.TotalItems)
	assert.Equal(t, 1, panel.Pagination.TotalPages)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetPanelExcludesCollaboratorMissingDirectReport(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("cycle-1").
		WillReturnRows(cycleRows("cycle-1", "Ciclo 2024.1", models.CycleStatusOpen))

	env.mock.ExpectQuery("FROM users u").
		WillReturnRows(panelUserRows().
			AddRow("user-1", "Ana Souza", models.UserTypeCollaborator, "leader-1", "Desenvolvedora"))

	expectPanelRowQueries(env, false, finalizedRows())

	panel, err := env.svc.GetPanel(PanelQuery{CycleID: "cycle-1"})
	require.NoError(t, err)
	assert.Empty(t, panel.Evaluations)
	assert.Equal(t, 0, panel.Pagination.TotalItems)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetPanelEqualizedStatus(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("cycle-1").
		WillReturnRows(cycleRows("cycle-1", "Ciclo 2024.1", models.CycleStatusOpen))

	env.mock.ExpectQuery("FROM users u").
		WillReturnRows(panelUserRows().
			AddRow("user-1", "Ana Souza", models.UserTypeCollaborator, "leader-1", "Desenvolvedora"))

	expectPanelRowQueries(env, true, finalizedRows().
		AddRow("fe-1", "user-1", "cycle-1", models.GeneralCriterionID, 9.2, "committee-1", time.Now(), time.Now()))

	panel, err := env.svc.GetPanel(PanelQuery{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, panel.Evaluations, 1)

	row := panel.Evaluations[0]
	assert.Equal(t, models.EvaluationStatusEqualized, row.Status)
	require.NotNil(t, row.FinalScore)
	assert.Equal(t, 9.2, *row.FinalScore)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetPanelZeroFinalScoreStaysPending(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("cycle-1").
		WillReturnRows(cycleRows("cycle-1", "Ciclo 2024.1", models.CycleStatusOpen))

	env.mock.ExpectQuery("FROM users u").
		WillReturnRows(panelUserRows().
			AddRow("user-1", "Ana Souza", models.UserTypeCollaborator, "leader-1", "Desenvolvedora"))

	// A finalized row exists, but with a score of exactly 0.
	expectPanelRowQueries(env, true, finalizedRows().
		AddRow("fe-1", "user-1", "cycle-1", models.GeneralCriterionID, 0.0, "committee-1", time.Now(), time.Now()))

	panel, err := env.svc.GetPanel(PanelQuery{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, panel.Evaluations, 1)

	// Only a strictly positive stored score counts as equalized; zero reads
	// as "not finalized" and the row exposes no final score.
	row := panel.Evaluations[0]
	assert.Equal(t, models.EvaluationStatusPending, row.Status)
	assert.Nil(t, row.FinalScore)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateEvaluationScoreAndNewObservation(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectExec("INSERT INTO evaluation_criteria").
		WithArgs(models.GeneralCriterionID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	env.mock.ExpectQuery("FROM equalization_logs").
		WithArgs("user-1", "cycle-1", models.ChangeTypeObservation).
		WillReturnRows(observationRows())

	env.mock.ExpectBegin()
	env.mock.ExpectExec("INSERT INTO finalized_evaluations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec("INSERT INTO equalization_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	// Mentor notification path: collaborator has no mentor, nothing happens.
	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(userRows().
			AddRow("user-1", "Ana Souza", "ana.souza@corp.com", "hash", models.UserTypeCollaborator, true, "leader-1", nil, time.Now(), time.Now()))

	score := 9.2
	observation := "Entrega consistente no ciclo"
	err := env.svc.UpdateEvaluation("user-1_cycle-1", UpdateEvaluationRequest{
		FinalScore:  &score,
		Observation: &observation,
	}, "committee-1")
	require.NoError(t, err)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateEvaluationObservationUpdatesInPlace(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM equalization_logs").
		WithArgs("user-1", "cycle-1", models.ChangeTypeObservation).
		WillReturnRows(observationRows().
			AddRow("log-1", "user-1", "cycle-1", models.ChangeTypeObservation, "", "committee-1", time.Now()))

	env.mock.ExpectBegin()
	env.mock.ExpectExec("UPDATE equalization_logs SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	observation := "Texto revisado"
	err := env.svc.UpdateEvaluation("user-1_cycle-1", UpdateEvaluationRequest{
		Observation: &observation,
	}, "committee-2")
	require.NoError(t, err)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateEvaluationRejectsEmptyPayload(t *testing.T) {
	env := newCommitteeTestEnv(t)

	err := env.svc.UpdateEvaluation("user-1_cycle-1", UpdateEvaluationRequest{}, "committee-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateEvaluationRejectsMalformedID(t *testing.T) {
	env := newCommitteeTestEnv(t)

	score := 8.0
	err := env.svc.UpdateEvaluation("not-a-composite-id", UpdateEvaluationRequest{FinalScore: &score}, "committee-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetMentorRejectsNonCommitteeMentor(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(userRows().
			AddRow("user-1", "Ana Souza", "ana.souza@corp.com", "hash", models.UserTypeCollaborator, true, "leader-1", nil, time.Now(), time.Now()))

	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("mentor-1").
		WillReturnRows(userRows().
			AddRow("mentor-1", "Bruno Lima", "bruno.lima@corp.com", "hash", models.UserTypeManager, true, nil, nil, time.Now(), time.Now()))

	mentorID := "mentor-1"
	_, err := env.svc.SetMentor("user-1", &mentorID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSetMentorAcceptsCommitteeMentor(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(userRows().
			AddRow("user-1", "Ana Souza", "ana.souza@corp.com", "hash", models.UserTypeCollaborator, true, "leader-1", nil, time.Now(), time.Now()))

	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("mentor-1").
		WillReturnRows(userRows().
			AddRow("mentor-1", "Carla Dias", "carla.dias@corp.com", "hash", models.UserTypeCommittee, true, nil, nil, time.Now(), time.Now()))

	env.mock.ExpectQuery("UPDATE users SET mentor_id").
		WithArgs("user-1", "mentor-1").
		WillReturnRows(userRows().
			AddRow("user-1", "Ana Souza", "ana.souza@corp.com", "hash", models.UserTypeCollaborator, true, "leader-1", "mentor-1", time.Now(), time.Now()))

	mentorID := "mentor-1"
	updated, err := env.svc.SetMentor("user-1", &mentorID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.MentorID)
	assert.Equal(t, "mentor-1", *updated.MentorID)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetMenteesOrderedByName(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM users WHERE id").
		WithArgs("mentor-1").
		WillReturnRows(userRows().
			AddRow("mentor-1", "Carla Dias", "carla.dias@corp.com", "hash", models.UserTypeCommittee, true, nil, nil, time.Now(), time.Now()))

	env.mock.ExpectQuery("FROM users WHERE mentor_id").
		WithArgs("mentor-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow("user-1", "Ana Souza", "ana.souza@corp.com").
			AddRow("user-2", "Bruno Lima", "bruno.lima@corp.com"))

	mentees, err := env.svc.GetMentees("mentor-1")
	require.NoError(t, err)
	require.Len(t, mentees, 2)
	assert.Equal(t, "Ana Souza", mentees[0].Name)
	assert.Equal(t, "Bruno Lima", mentees[1].Name)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetSingleAISummaryReturnsCached(t *testing.T) {
	env := newCommitteeTestEnv(t)

	encrypted, err := env.crypto.Encrypt("Resumo já gerado")
	require.NoError(t, err)

	env.mock.ExpectQuery("FROM ai_summaries").
		WithArgs("user-1", "cycle-1", models.SummaryTypeEqualization).
		WillReturnRows(aiSummaryRows().
			AddRow("sum-1", "user-1", "cycle-1", models.SummaryTypeEqualization, encrypted, "committee-1", time.Now()))

	requestor := &models.User{ID: "committee-1", Name: "Carla", Email: "carla@corp.com"}
	summary, err := env.svc.GetSingleAISummary("user-1_cycle-1", requestor)
	require.NoError(t, err)
	assert.Equal(t, "Resumo já gerado", summary)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetLastCycleSummary(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles ORDER BY start_date DESC").
		WillReturnRows(cycleRows("cycle-1", "Ciclo 2024.1", models.CycleStatusOpen))

	env.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WithArgs(models.UserTypeAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	env.mock.ExpectQuery("FROM leader_evaluations").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "leader_id", "collaborator_id", "cycle_id", "delivery_score", "proactivity_score", "collaboration_score", "skill_score", "created_at"}).
			AddRow("le-1", "leader-1", "user-1", "cycle-1", 8.0, 8.0, 8.0, 8.0, time.Now()).
			AddRow("le-2", "leader-1", "user-2", "cycle-1", 6.0, 7.0, 8.0, 7.0, time.Now()))

	env.mock.ExpectQuery("COUNT\\(DISTINCT user_id\\)").
		WithArgs("cycle-1", models.SubmissionStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	summary, err := env.svc.GetLastCycleSummary()
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalCollaborators)
	assert.Equal(t, 6, summary.ReadyEvaluations)
	assert.Equal(t, 4, summary.PendingEvaluations)
	// (32 + 28) / (2 * 4) = 7.5
	assert.Equal(t, 7.5, summary.OverallAverage)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetInsightsActiveProjectsFromNewestOpenCycle(t *testing.T) {
	env := newCommitteeTestEnv(t)

	// Two open cycles, most recent first; the newest has no projects yet.
	env.mock.ExpectQuery("FROM evaluation_cycles ORDER BY start_date DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "status"}).
			AddRow("cycle-2", "Ciclo 2024.2", time.Now(), models.CycleStatusOpen).
			AddRow("cycle-1", "Ciclo 2024.1", time.Now().AddDate(0, -6, 0), models.CycleStatusOpen))

	env.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WithArgs(models.UserTypeAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	env.mock.ExpectQuery("FROM leader_evaluations").
		WithArgs("cycle-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "leader_id", "collaborator_id", "cycle_id", "delivery_score", "proactivity_score", "collaboration_score", "skill_score", "created_at"}))
	env.mock.ExpectQuery("COUNT\\(DISTINCT user_id\\)").
		WithArgs("cycle-2", models.SubmissionStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	env.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM projects").
		WithArgs("cycle-2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	env.mock.ExpectQuery("FROM leader_evaluations").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "leader_id", "collaborator_id", "cycle_id", "delivery_score", "proactivity_score", "collaboration_score", "skill_score", "created_at"}).
			AddRow("le-1", "leader-1", "user-1", "cycle-1", 8.0, 8.0, 8.0, 8.0, time.Now()))
	env.mock.ExpectQuery("COUNT\\(DISTINCT user_id\\)").
		WithArgs("cycle-1", models.SubmissionStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	env.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM projects").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	insights, err := env.svc.GetInsights()
	require.NoError(t, err)

	// The newest open cycle wins even with zero projects; the older open
	// cycle's count must not leak in.
	assert.Equal(t, 0, insights.ActiveProjects)
	assert.Equal(t, 3, insights.ProjectsAmount)
	assert.Equal(t, 2, insights.CyclesAmount)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetInsightsNoCycles(t *testing.T) {
	env := newCommitteeTestEnv(t)

	env.mock.ExpectQuery("FROM evaluation_cycles ORDER BY start_date DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "status"}))

	_, err := env.svc.GetInsights()
	assert.ErrorIs(t, err, ErrNotFound)
}
