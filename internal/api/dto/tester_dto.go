package dto

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/service"
)

// CreateTesterRequest payload.
type CreateTesterRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone"`
	Source string `json:"source" validate:"required"`
	Notes  string `json:"notes"`
}

// UpdateTesterRequest payload. Pointer fields distinguish omitted from
// cleared values.
type UpdateTesterRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone"`
	Source *string `json:"source"`
	Notes  *string `json:"notes"`
}

// SetStageRequest payload.
type SetStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// SendEmailRequest payload for both render and send endpoints. Either a
// template name or a subject/body pair is required.
type SendEmailRequest struct {
	TemplateName string            `json:"template_name"`
	Subject      string            `json:"subject"`
	Body         string            `json:"body"`
	Variables    map[string]string `json:"variables"`
}

// TesterResponse is the list-item representation.
type TesterResponse struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone,omitempty"`
	Source      domain.TesterSource `json:"source"`
	Stage       domain.TesterStage  `json:"stage"`
	InvitedAt   *time.Time          `json:"invited_at"`
	StartedAt   *time.Time          `json:"started_at"`
	LastActive  *time.Time          `json:"last_active"`
	CompletedAt *time.Time          `json:"completed_at"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TesterDetailResponse augments the tester with computed stats.
type TesterDetailResponse struct {
	TesterResponse
	DaysInTest    int `json:"days_in_test"`
	DaysRemaining int `json:"days_remaining"`
	FeedbackCount int `json:"feedback_count"`
	IncidentCount int `json:"incident_count"`
}

// RenderedEmailResponse is the render-without-send result.
type RenderedEmailResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ToTesterResponse maps a domain tester.
func ToTesterResponse(t domain.Tester) TesterResponse {
	return TesterResponse{
		ID:          t.ID,
		Name:        t.Name,
		Email:       t.Email,
		Phone:       t.Phone,
		Source:      t.Source,
		Stage:       t.Stage,
		InvitedAt:   t.InvitedAt,
		StartedAt:   t.StartedAt,
		LastActive:  t.LastActive,
		CompletedAt: t.CompletedAt,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTesterListResponse maps a page of testers.
func ToTesterListResponse(testers []domain.Tester) []TesterResponse {
	out := make([]TesterResponse, 0, len(testers))
	for _, t := range testers {
		out = append(out, ToTesterResponse(t))
	}
	return out
}

// ToTesterDetailResponse maps a tester with stats.
func ToTesterDetailResponse(t *service.TesterWithStats) TesterDetailResponse {
	return TesterDetailResponse{
		TesterResponse: ToTesterResponse(t.Tester),
		DaysInTest:     t.DaysInTest,
		DaysRemaining:  t.DaysRemaining,
		FeedbackCount:  t.FeedbackCount,
		IncidentCount:  t.IncidentCount,
	}
}
