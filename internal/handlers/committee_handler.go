package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"rpe/internal/middleware"
	"rpe/internal/repository"
	"rpe/internal/service"
)

// CommitteeHandler handles HTTP requests for the committee equalization panel
type CommitteeHandler struct {
	committeeService *service.CommitteeService
	exportService    *service.ExportService
	userRepo         *repository.UserRepository
}

// NewCommitteeHandler creates a new committee handler
func NewCommitteeHandler(
	committeeService *service.CommitteeService,
	exportService *service.ExportService,
	userRepo *repository.UserRepository,
) *CommitteeHandler {
	return &CommitteeHandler{
		committeeService: committeeService,
		exportService:    exportService,
		userRepo:         userRepo,
	}
}

// respondServiceError maps service sentinel errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetPanel retrieves the consolidated committee panel
// @Summary Get committee panel
// @Description Retrieves the paginated committee panel with consolidated scores per collaborator
// @Tags Committee
// @Security BearerAuth
// @Param cycleId query string false "Cycle ID (defaults to the most recent cycle)"
// @Param search query string false "Name filter, case-insensitive substring"
// @Param track query string false "Track role filter"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} models.CommitteePanel
// @Failure 404 {object} map[string]string "Cycle not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/panel [get]
func (h *CommitteeHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	query := service.PanelQuery{
		CycleID: r.URL.Query().Get("cycleId"),
		Search:  r.URL.Query().Get("search"),
		Track:   r.URL.Query().Get("track"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		query.Limit = limit
	}

	panel, err := h.committeeService.GetPanel(query)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, panel)
}

// UpdateEvaluation finalizes a collaborator's score and/or observation
// @Summary Equalize an evaluation
// @Description Sets the final score and/or committee observation for a panel row
// @Tags Committee
// @Security BearerAuth
// @Param id path string true "Composite evaluation ID (userId_cycleId)"
// @Param payload body service.UpdateEvaluationRequest true "Final score and/or observation"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Malformed ID or empty payload"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/evaluations/{id} [patch]
func (h *CommitteeHandler) UpdateEvaluation(w http.ResponseWriter, r *http.Request) {
	evaluationID := r.PathValue("id")

	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload service.UpdateEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.committeeService.UpdateEvaluation(evaluationID, payload, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, map[string]string{"message": "Evaluation updated successfully"})
}

// GetSummary retrieves the dashboard summary of the most recent cycle
// @Summary Get committee summary
// @Description Retrieves collaborator counts and the overall average for the most recent cycle
// @Tags Committee
// @Security BearerAuth
// @Success 200 {object} models.CommitteeSummary
// @Failure 404 {object} map[string]string "No cycle exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/summary [get]
func (h *CommitteeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.committeeService.GetLastCycleSummary()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, summary)
}

// GetInsights retrieves cross-cycle committee statistics
// @Summary Get committee insights
// @Description Retrieves per-cycle statistics plus the weighted global average
// @Tags Committee
// @Security BearerAuth
// @Success 200 {object} models.CommitteeInsights
// @Failure 404 {object} map[string]string "No cycle exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/insights [get]
func (h *CommitteeHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.committeeService.GetInsights()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, insights)
}

// GetEvaluationSummary returns the AI-generated equalization summary
// @Summary Get AI equalization summary
// @Description Returns the cached summary for a panel row, generating it on first request
// @Tags Committee
// @Security BearerAuth
// @Param id path string true "Composite evaluation ID (userId_cycleId)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Malformed ID"
// @Failure 404 {object} map[string]string "No evaluation data"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/evaluations/{id}/summary [get]
func (h *CommitteeHandler) GetEvaluationSummary(w http.ResponseWriter, r *http.Request) {
	evaluationID := r.PathValue("id")

	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestor, err := h.userRepo.GetByID(userID)
	if err != nil || requestor == nil {
		http.Error(w, "Failed to resolve requesting user", http.StatusInternalServerError)
		return
	}

	summary, err := h.committeeService.GetSingleAISummary(evaluationID, requestor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, map[string]string{"summary": summary})
}

// SetMentorRequest is the mentor assignment payload
type SetMentorRequest struct {
	MentorID *string `json:"mentor_id"`
}

// SetMentor assigns a mentor to a user
// @Summary Assign a mentor
// @Description Assigns a committee member or admin as a user's mentor
// @Tags Committee
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body SetMentorRequest true "Mentor assignment"
// @Success 200 {object} models.User
// @Failure 403 {object} map[string]string "Mentor lacks committee permission"
// @Failure 404 {object} map[string]string "User or mentor not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/users/{id}/mentor [patch]
func (h *CommitteeHandler) SetMentor(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var payload SetMentorRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.committeeService.SetMentor(userID, payload.MentorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, user)
}

// RemoveMentor clears a user's mentor assignment
// @Summary Remove a mentor
// @Description Removes the mentor assignment from a user
// @Tags Committee
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/users/{id}/mentor [delete]
func (h *CommitteeHandler) RemoveMentor(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	user, err := h.committeeService.RemoveMentor(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, user)
}

// GetMentees lists the users mentored by a given mentor
// @Summary List mentees
// @Description Lists the users mentored by the given user, ordered by name
// @Tags Committee
// @Security BearerAuth
// @Param id path string true "Mentor user ID"
// @Success 200 {array} models.TeamMember
// @Failure 404 {object} map[string]string "Mentor not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/mentors/{id}/mentees [get]
func (h *CommitteeHandler) GetMentees(w http.ResponseWriter, r *http.Request) {
	mentorID := r.PathValue("id")

	mentees, err := h.committeeService.GetMentees(mentorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	JSONResponse(w, mentees)
}

// ExportCycle downloads the cycle's evaluation data as CSV
// @Summary Export cycle data
// @Description Downloads every evaluation in a cycle, decrypted, as a CSV file
// @Tags Committee
// @Security BearerAuth
// @Param cycleId query string true "Cycle ID"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} map[string]string "Missing cycle ID"
// @Failure 404 {object} map[string]string "Cycle not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /committee/export [get]
func (h *CommitteeHandler) ExportCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := r.URL.Query().Get("cycleId")
	if cycleID == "" {
		http.Error(w, "cycleId query parameter is required", http.StatusBadRequest)
		return
	}

	filename, data, err := h.exportService.ExportCycleData(cycleID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}
