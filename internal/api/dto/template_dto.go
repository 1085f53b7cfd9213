package dto

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
)

// CreateTemplateRequest payload.
type CreateTemplateRequest struct {
	Name      string   `json:"name" validate:"required"`
	Subject   string   `json:"subject" validate:"required"`
	Body      string   `json:"body" validate:"required"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"is_active"`
}

// UpdateTemplateRequest payload.
type UpdateTemplateRequest struct {
	Name      *string   `json:"name"`
	Subject   *string   `json:"subject"`
	Body      *string   `json:"body"`
	Variables *[]string `json:"variables"`
	IsActive  *bool     `json:"is_active"`
}

// PreviewTemplateRequest payload.
type PreviewTemplateRequest struct {
	TestData map[string]string `json:"test_data"`
}

// TemplateResponse representation.
type TemplateResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTemplateResponse maps a domain template.
func ToTemplateResponse(t domain.EmailTemplate) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		Variables: t.Variables,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTemplateListResponse maps all templates.
func ToTemplateListResponse(items []domain.EmailTemplate) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(items))
	for _, t := range items {
		out = append(out, ToTemplateResponse(t))
	}
	return out
}
