package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rpe/internal/models"
)

const fallbackSummaryMessage = "Resumo automático indisponível no momento."

// GenAIService handles interaction with the Language Model
type GenAIService struct {
	baseURL string
	model   string
	enabled bool
	client  *http.Client
}

// NewGenAIService creates a new GenAI service
func NewGenAIService(baseURL, model string, enabled bool) *GenAIService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &GenAIService{
		baseURL: baseURL,
		model:   model,
		enabled: enabled,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateEqualizationSummary produces the committee-facing narrative for one
// collaborator's consolidated evaluation data. Model failures degrade to a
// fixed fallback message, never to an error.
func (s *GenAIService) GenerateEqualizationSummary(view *models.ConsolidatedView) (string, error) {
	if view == nil {
		return "", nil
	}
	if !s.enabled {
		return fallbackSummaryMessage, nil
	}

	var sb strings.Builder
	sb.WriteString("Você é um assistente do comitê de equalização de avaliações de desempenho. ")
	sb.WriteString("Com base nos dados consolidados abaixo, escreva um resumo analítico do desempenho do colaborador no ciclo. ")
	sb.WriteString("Destaque pontos fortes, discrepâncias entre as fontes de avaliação e pontos de atenção. ")
	sb.WriteString("Não cite avaliadores individualmente. ")
	sb.WriteString("Responda SOMENTE com o texto do resumo, em português.\n\n")
	writeViewPrompt(&sb, view)

	return s.generate(sb.String())
}

// ExtractBrutalFacts distills the consolidated data into direct talking points
// for the collaborator's mentor.
func (s *GenAIService) ExtractBrutalFacts(view *models.ConsolidatedView) (string, error) {
	if view == nil {
		return "", nil
	}
	if !s.enabled {
		return fallbackSummaryMessage, nil
	}

	var sb strings.Builder
	sb.WriteString("Você é um assistente de mentoria. ")
	sb.WriteString("Com base nos dados consolidados abaixo, liste de forma direta e honesta os principais fatos sobre o desempenho do colaborador ")
	sb.WriteString("que o mentor deve abordar na conversa de feedback. ")
	sb.WriteString("Seja objetivo e construtivo. Não cite avaliadores individualmente. ")
	sb.WriteString("Responda SOMENTE com a lista de pontos, em português.\n\n")
	writeViewPrompt(&sb, view)

	return s.generate(sb.String())
}

func writeViewPrompt(sb *strings.Builder, view *models.ConsolidatedView) {
	fmt.Fprintf(sb, "Colaborador: %s\nCiclo: %s\n\n", view.CollaboratorName, view.CycleName)

	if len(view.SelfEvaluations) > 0 {
		sb.WriteString("Autoavaliação:\n")
		for _, item := range view.SelfEvaluations {
			fmt.Fprintf(sb, "- %s: nota %.1f. %s\n", item.CriterionName, item.Score, item.Justification)
		}
		sb.WriteString("\n")
	}

	if len(view.PeerEvaluations) > 0 {
		sb.WriteString("Avaliações de pares:\n")
		for i, item := range view.PeerEvaluations {
			fmt.Fprintf(sb, "- Par %d: nota %.1f. Pontos a melhorar: %s. Pontos a explorar: %s\n",
				i+1, item.GeneralScore, item.PointsToImprove, item.PointsToExplore)
		}
		sb.WriteString("\n")
	}

	if view.LeaderEvaluation != nil {
		le := view.LeaderEvaluation
		fmt.Fprintf(sb, "Avaliação do gestor: entregas %.1f, proatividade %.1f, colaboração %.1f, habilidades %.1f. %s\n\n",
			le.DeliveryScore, le.ProactivityScore, le.CollaborationScore, le.SkillScore, le.Justification)
	}

	if view.FinalScore != nil {
		fmt.Fprintf(sb, "Nota final do comitê: %.1f\n", *view.FinalScore)
	}
}

func (s *GenAIService) generate(prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fallbackSummaryMessage, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.client.Post(fmt.Sprintf("%s/api/generate", s.baseURL), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Error("GenAI service unreachable", "error", err)
		return fallbackSummaryMessage, nil // Return fallback instead of error
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("GenAI service returned non-200 status", "status", resp.StatusCode, "body", string(bodyBytes))

		// If model not found, try to pull it
		if resp.StatusCode == http.StatusNotFound && strings.Contains(string(bodyBytes), "model") {
			go s.PullModel()
		}

		return fallbackSummaryMessage, nil
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		slog.Error("Failed to decode GenAI response", "error", err)
		return fallbackSummaryMessage, nil
	}

	return strings.TrimSpace(ollamaResp.Response), nil
}

// PullModel triggers a model pull
func (s *GenAIService) PullModel() {
	slog.Info("Attempting to pull GenAI model", "model", s.model)

	reqBody := map[string]string{
		"name": s.model,
	}
	jsonData, _ := json.Marshal(reqBody)

	resp, err := s.client.Post(fmt.Sprintf("%s/api/pull", s.baseURL), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Error("Failed to trigger model pull", "error", err)
		return
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to pull model", "status", resp.StatusCode, "body", string(bodyBytes))
		return
	}

	slog.Info("Model pull triggered successfully", "model", s.model)
}
