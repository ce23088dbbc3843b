package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"rpe/internal/repository"
)

// ExportService flattens a cycle's evaluation data into a CSV download for HR
type ExportService struct {
	cycles      *repository.CycleRepository
	selfEvals   *repository.SelfEvaluationRepository
	peerEvals   *repository.PeerEvaluationRepository
	leaderEvals *repository.LeaderEvaluationRepository
}

// NewExportService creates a new export service
func NewExportService(
	cycles *repository.CycleRepository,
	selfEvals *repository.SelfEvaluationRepository,
	peerEvals *repository.PeerEvaluationRepository,
	leaderEvals *repository.LeaderEvaluationRepository,
) *ExportService {
	return &ExportService{
		cycles:      cycles,
		selfEvals:   selfEvals,
		peerEvals:   peerEvals,
		leaderEvals: leaderEvals,
	}
}

// ExportCycleData renders every evaluation in a cycle, decrypted, as one CSV.
// Returns the suggested filename and the file contents.
func (s *ExportService) ExportCycleData(cycleID string) (string, []byte, error) {
	cycle, err := s.cycles.GetByID(cycleID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get cycle: %w", err)
	}
	if cycle == nil {
		return "", nil, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
	}

	selfDetails, err := s.selfEvals.ListCompletedByCycleWithDetails(cycleID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list self evaluations: %w", err)
	}

	peerDetails, err := s.peerEvals.ListByCycleWithDetails(cycleID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list peer evaluations: %w", err)
	}

	leaderDetails, err := s.leaderEvals.ListByCycleWithDetails(cycleID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list leader evaluations: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Tipo", "Colaborador", "Email", "Detalhe", "Nota", "Comentários"}
	if err := w.Write(header); err != nil {
		return "", nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, d := range selfDetails {
		record := []string{
			"Autoavaliação",
			d.UserName,
			d.UserEmail,
			d.CriterionName,
			formatScore(d.Score),
			d.Justification,
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("failed to write self evaluation row: %w", err)
		}
	}

	for _, d := range peerDetails {
		comments := fmt.Sprintf("Pontos a melhorar: %s | Pontos a explorar: %s", d.PointsToImprove, d.PointsToExplore)
		record := []string{
			"Avaliação de Pares",
			d.EvaluatedName,
			d.EvaluatedEmail,
			fmt.Sprintf("Avaliador: %s", d.EvaluatorName),
			formatScore(d.GeneralScore),
			comments,
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("failed to write peer evaluation row: %w", err)
		}
	}

	for _, d := range leaderDetails {
		detail := fmt.Sprintf("Entregas: %s | Proatividade: %s | Colaboração: %s | Habilidades: %s",
			formatScore(d.DeliveryScore), formatScore(d.ProactivityScore),
			formatScore(d.CollaborationScore), formatScore(d.SkillScore))
		composite := (d.DeliveryScore + d.ProactivityScore + d.CollaborationScore + d.SkillScore) / 4
		record := []string{
			"Avaliação do Gestor",
			d.CollaboratorName,
			d.CollaboratorEmail,
			detail,
			formatScore(round1(composite)),
			d.Justification,
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("failed to write leader evaluation row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("avaliacoes_%s.csv", sanitizeFilename(cycle.Name))
	return filename, buf.Bytes(), nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitizeFilename keeps the cycle name usable in a Content-Disposition header
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", "\"", "", ";", "")
	return replacer.Replace(name)
}
