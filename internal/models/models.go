package models

import (
	"time"
)

// User types as stored in the database.
const (
	UserTypeAdmin        = "ADMIN"
	UserTypeCollaborator = "COLABORADOR"
	UserTypeManager      = "GESTOR"
	UserTypeHR           = "RH"
	UserTypeCommittee    = "COMITE"
)

// Role types distinguish track assignments from position assignments.
const (
	RoleTypeTrack    = "TRILHA"
	RoleTypePosition = "CARGO"
)

// Cycle statuses.
const (
	CycleStatusOpen   = "Aberto"
	CycleStatusClosed = "Fechado"
)

// SubmissionStatusCompleted marks a self-evaluation that counts toward scoring.
const SubmissionStatusCompleted = "Concluída"

// ChangeTypeObservation is the equalization-log entry type for committee notes.
const ChangeTypeObservation = "Observação"

// SummaryTypeEqualization is the AI summary type cached per collaborator/cycle.
const SummaryTypeEqualization = "EQUALIZATION_SUMMARY"

// Panel statuses.
const (
	EvaluationStatusEqualized = "Equalizada"
	EvaluationStatusPending   = "Pendente"
)

// GeneralCriterionID identifies the committee's overall finalized score.
const GeneralCriterionID = "geral"

// User represents a platform user
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	UserType     string    `json:"user_type" db:"user_type"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LeaderID     *string   `json:"leader_id,omitempty" db:"leader_id"`
	MentorID     *string   `json:"mentor_id,omitempty" db:"mentor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Role represents a track or position assignment for a user
type Role struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Type   string `json:"type" db:"type"`
}

// EvaluationCycle represents a bounded performance-review period
type EvaluationCycle struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	Status    string    `json:"status" db:"status"`
}

// EvaluationCriterion is a single scored criterion
type EvaluationCriterion struct {
	ID            string `json:"id" db:"id"`
	Pillar        string `json:"pillar" db:"pillar"`
	CriterionName string `json:"criterion_name" db:"criterion_name"`
}

// Project groups peer evaluations and feeds the insights counters
type Project struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	CycleID string `json:"cycle_id" db:"cycle_id"`
}

// SelfEvaluation is one per-criterion self score; justification is stored encrypted
type SelfEvaluation struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	CycleID          string    `json:"cycle_id" db:"cycle_id"`
	CriterionID      string    `json:"criterion_id" db:"criterion_id"`
	Score            float64   `json:"score" db:"score"`
	Justification    string    `json:"justification" db:"justification"`
	SubmissionStatus string    `json:"submission_status" db:"submission_status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// PeerEvaluation is one peer's score of a collaborator; free text is stored encrypted
type PeerEvaluation struct {
	ID              string    `json:"id" db:"id"`
	EvaluatorUserID string    `json:"evaluator_user_id" db:"evaluator_user_id"`
	EvaluatedUserID string    `json:"evaluated_user_id" db:"evaluated_user_id"`
	CycleID         string    `json:"cycle_id" db:"cycle_id"`
	GeneralScore    float64   `json:"general_score" db:"general_score"`
	PointsToImprove string    `json:"points_to_improve" db:"points_to_improve"`
	PointsToExplore string    `json:"points_to_explore" db:"points_to_explore"`
	ProjectID       *string   `json:"project_id,omitempty" db:"project_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// LeaderEvaluation is the leader's four-dimension score of a collaborator
type LeaderEvaluation struct {
	ID                 string    `json:"id" db:"id"`
	LeaderID           string    `json:"leader_id" db:"leader_id"`
	CollaboratorID     string    `json:"collaborator_id" db:"collaborator_id"`
	CycleID            string    `json:"cycle_id" db:"cycle_id"`
	DeliveryScore      float64   `json:"delivery_score" db:"delivery_score"`
	ProactivityScore   float64   `json:"proactivity_score" db:"proactivity_score"`
	CollaborationScore float64   `json:"collaboration_score" db:"collaboration_score"`
	SkillScore         float64   `json:"skill_score" db:"skill_score"`
	Justification      string    `json:"justification" db:"justification"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// DirectReportEvaluation is a subordinate's upward evaluation of their leader
type DirectReportEvaluation struct {
	ID               string    `json:"id" db:"id"`
	CollaboratorID   string    `json:"collaborator_id" db:"collaborator_id"`
	LeaderID         string    `json:"leader_id" db:"leader_id"`
	CycleID          string    `json:"cycle_id" db:"cycle_id"`
	VisionScore      float64   `json:"vision_score" db:"vision_score"`
	InspirationScore float64   `json:"inspiration_score" db:"inspiration_score"`
	DevelopmentScore float64   `json:"development_score" db:"development_score"`
	FeedbackScore    float64   `json:"feedback_score" db:"feedback_score"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// FinalizedEvaluation holds the committee's authoritative score per criterion
type FinalizedEvaluation struct {
	ID             string    `json:"id" db:"id"`
	CollaboratorID string    `json:"collaborator_id" db:"collaborator_id"`
	CycleID        string    `json:"cycle_id" db:"cycle_id"`
	CriterionID    string    `json:"criterion_id" db:"criterion_id"`
	FinalScore     float64   `json:"final_score" db:"final_score"`
	FinalizedByID  string    `json:"finalized_by_id" db:"finalized_by_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// EqualizationLog records committee observations; the text is stored encrypted
type EqualizationLog struct {
	ID             string    `json:"id" db:"id"`
	CollaboratorID string    `json:"collaborator_id" db:"collaborator_id"`
	CycleID        string    `json:"cycle_id" db:"cycle_id"`
	ChangeType     string    `json:"change_type" db:"change_type"`
	Observation    string    `json:"observation" db:"observation"`
	ChangedByID    string    `json:"changed_by_id" db:"changed_by_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// AISummary caches one generated narrative per collaborator/cycle/type
type AISummary struct {
	ID             string    `json:"id" db:"id"`
	CollaboratorID string    `json:"collaborator_id" db:"collaborator_id"`
	CycleID        string    `json:"cycle_id" db:"cycle_id"`
	SummaryType    string    `json:"summary_type" db:"summary_type"`
	Content        string    `json:"content" db:"content"`
	GeneratedByID  string    `json:"generated_by_id" db:"generated_by_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PanelUser is a user row as the panel builder selects it: active, name-ordered,
// with leader id and the first position role attached.
type PanelUser struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	UserType     string  `json:"user_type" db:"user_type"`
	LeaderID     *string `json:"leader_id,omitempty" db:"leader_id"`
	PositionRole string  `json:"position_role" db:"position_role"`
}

// CommitteePanelRow is one consolidated collaborator row in the committee panel
type CommitteePanelRow struct {
	ID                 string   `json:"id"`
	CollaboratorID     string   `json:"collaborator_id"`
	CollaboratorName   string   `json:"collaborator_name"`
	CollaboratorRole   string   `json:"collaborator_role"`
	CycleID            string   `json:"cycle_id"`
	CycleName          string   `json:"cycle_name"`
	SelfScore          *float64 `json:"self_evaluation_score"`
	PeerScore          *float64 `json:"peer_evaluation_score"`
	ManagerScore       *float64 `json:"manager_evaluation_score"`
	DirectReportScore  *float64 `json:"direct_report_score"`
	FinalScore         *float64 `json:"final_score"`
	Status             string   `json:"status"`
	Observation        string   `json:"observation,omitempty"`
	EqualizationAISumm string   `json:"gen_ai_summary,omitempty"`
}

// Pagination carries page metadata for list responses
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// CommitteePanel is the paginated committee panel response
type CommitteePanel struct {
	Evaluations []CommitteePanelRow `json:"evaluations"`
	Pagination  Pagination          `json:"pagination"`
}

// CommitteeSummary summarizes the most recent cycle for the committee dashboard
type CommitteeSummary struct {
	TotalCollaborators int     `json:"total_collaborators"`
	ReadyEvaluations   int     `json:"ready_evaluations"`
	PendingEvaluations int     `json:"pending_evaluations"`
	OverallAverage     float64 `json:"overall_average"`
}

// CycleInsight is the per-cycle slice of the committee insights view
type CycleInsight struct {
	CycleID            string  `json:"cycle_id"`
	CycleName          string  `json:"cycle_name"`
	OverallAverage     float64 `json:"overall_average"`
	TotalCollaborators int     `json:"total_collaborators"`
	ReadyEvaluations   int     `json:"ready_evaluations"`
	PendingEvaluations int     `json:"pending_evaluations"`
	ProjectsInCycle    int     `json:"projects_in_cycle"`
}

// CommitteeInsights is the cross-cycle committee insights view
type CommitteeInsights struct {
	Cycles              []CycleInsight `json:"cycles"`
	CyclesAmount        int            `json:"cycles_amount"`
	Score               float64        `json:"score"`
	ProjectsAmount      int            `json:"projects_amount"`
	ActiveProjects      int            `json:"active_projects"`
	ActiveCollaborators int            `json:"active_collaborators"`
}

// ConsolidatedSelfItem pairs a criterion with the collaborator's self score
type ConsolidatedSelfItem struct {
	CriterionName string  `json:"criterion_name"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// ConsolidatedPeerItem is one peer's contribution to the consolidated view
type ConsolidatedPeerItem struct {
	EvaluatorName   string  `json:"evaluator_name"`
	GeneralScore    float64 `json:"general_score"`
	PointsToImprove string  `json:"points_to_improve"`
	PointsToExplore string  `json:"points_to_explore"`
}

// ConsolidatedView is the merged snapshot of all evaluation sources for one
// collaborator/cycle, used as input to AI summary generation.
type ConsolidatedView struct {
	CollaboratorID   string                 `json:"collaborator_id"`
	CollaboratorName string                 `json:"collaborator_name"`
	CycleID          string                 `json:"cycle_id"`
	CycleName        string                 `json:"cycle_name"`
	SelfEvaluations  []ConsolidatedSelfItem `json:"self_evaluations"`
	PeerEvaluations  []ConsolidatedPeerItem `json:"peer_evaluations"`
	LeaderEvaluation *LeaderEvaluation      `json:"leader_evaluation,omitempty"`
	FinalScore       *float64               `json:"final_score,omitempty"`
}

// SelfEvaluationDetail joins a self-evaluation with user and criterion names
type SelfEvaluationDetail struct {
	SelfEvaluation
	UserName      string `json:"user_name" db:"user_name"`
	UserEmail     string `json:"user_email" db:"user_email"`
	CriterionName string `json:"criterion_name" db:"criterion_name"`
}

// PeerEvaluationDetail joins a peer evaluation with the people involved
type PeerEvaluationDetail struct {
	PeerEvaluation
	EvaluatedName  string `json:"evaluated_name" db:"evaluated_name"`
	EvaluatedEmail string `json:"evaluated_email" db:"evaluated_email"`
	EvaluatorName  string `json:"evaluator_name" db:"evaluator_name"`
}

// LeaderEvaluationDetail joins a leader evaluation with collaborator identity
type LeaderEvaluationDetail struct {
	LeaderEvaluation
	CollaboratorName  string `json:"collaborator_name" db:"collaborator_name"`
	CollaboratorEmail string `json:"collaborator_email" db:"collaborator_email"`
}

// TeamMember is the slim user shape returned in mentee listings
type TeamMember struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}
