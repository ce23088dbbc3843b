package service

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpe/internal/crypto"
	"rpe/internal/models"
	"rpe/internal/repository"
)

func newExportTestService(t *testing.T) (*ExportService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cryptoSvc, err := crypto.NewService("unit-test-secret")
	require.NoError(t, err)

	svc := NewExportService(
		repository.NewCycleRepository(db),
		repository.NewSelfEvaluationRepository(db, cryptoSvc),
		repository.NewPeerEvaluationRepository(db, cryptoSvc),
		repository.NewLeaderEvaluationRepository(db, cryptoSvc),
	)
	return svc, mock
}

func TestExportCycleData(t *testing.T) {
	svc, mock := newExportTestService(t)

	mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "status"}).
			AddRow("cycle-1", "Ciclo 2024.1", time.Now(), models.CycleStatusOpen))

	mock.ExpectQuery("FROM self_evaluations se").
		WithArgs("cycle-1", models.SubmissionStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "cycle_id", "criterion_id", "score", "justification", "submission_status", "created_at",
			"name", "email", "criterion_name",
		}).AddRow("se-1", "user-1", "cycle-1", "crit-1", 8.5, "", models.SubmissionStatusCompleted, time.Now(),
			"Ana Souza", "ana.souza@corp.com", "Entrega de Valor"))

	mock.ExpectQuery("FROM peer_evaluations pe").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "evaluator_user_id", "evaluated_user_id", "cycle_id", "general_score",
			"points_to_improve", "points_to_explore", "project_id", "created_at",
			"evaluated_name", "evaluated_email", "evaluator_name",
		}).AddRow("pe-1", "peer-1", "user-1", "cycle-1", 7.5, "", "", nil, time.Now(),
			"Ana Souza", "ana.souza@corp.com", "Bruno Lima"))

	mock.ExpectQuery("FROM leader_evaluations le").
		WithArgs("cycle-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "leader_id", "collaborator_id", "cycle_id",
			"delivery_score", "proactivity_score", "collaboration_score", "skill_score",
			"justification", "created_at", "name", "email",
		}).AddRow("le-1", "leader-1", "user-1", "cycle-1", 8.0, 8.0, 8.0, 8.0, "", time.Now(),
			"Ana Souza", "ana.souza@corp.com"))

	filename, data, err := svc.ExportCycleData("cycle-1")
	require.NoError(t, err)
	assert.Equal(t, "avaliacoes_Ciclo_2024.1.csv", filename)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Tipo", "Colaborador", "Email", "Detalhe", "Nota", "Comentários"}, records[0])
	assert.Equal(t, "Autoavaliação", records[1][0])
	assert.Equal(t, "Entrega de Valor", records[1][3])
	assert.Equal(t, "8.5", records[1][4])
	assert.Equal(t, "Avaliação de Pares", records[2][0])
	assert.Equal(t, "Avaliador: Bruno Lima", records[2][3])
	assert.Equal(t, "Avaliação do Gestor", records[3][0])
	assert.Equal(t, "8", records[3][4])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCycleDataUnknownCycle(t *testing.T) {
	svc, mock := newExportTestService(t)

	mock.ExpectQuery("FROM evaluation_cycles WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "status"}))

	_, _, err := svc.ExportCycleData("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
