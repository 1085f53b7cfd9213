package dto

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
)

// CreateIncidentRequest payload. TesterID 0 records a program-wide
// incident.
type CreateIncidentRequest struct {
	TesterID    int    `json:"tester_id"`
	Type        string `json:"type" validate:"required"`
	Severity    string `json:"severity" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Source      string `json:"source"`
	CrashID     string `json:"crash_id"`
}

// UpdateIncidentRequest payload.
type UpdateIncidentRequest struct {
	Type            *string `json:"type"`
	Severity        *string `json:"severity"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	ResolutionNotes *string `json:"resolution_notes"`
}

// IncidentResponse representation.
type IncidentResponse struct {
	ID              int                     `json:"id"`
	TesterID        int                     `json:"tester_id,omitempty"`
	TesterName      string                  `json:"tester_name,omitempty"`
	Type            domain.IncidentType     `json:"type"`
	Severity        domain.IncidentSeverity `json:"severity"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description,omitempty"`
	Status          domain.IncidentStatus   `json:"status"`
	Source          domain.IncidentSource   `json:"source"`
	CrashID         string                  `json:"crash_id,omitempty"`
	ResolvedAt      *time.Time              `json:"resolved_at"`
	ResolutionNotes string                  `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToIncidentResponse maps a domain incident.
func ToIncidentResponse(i domain.Incident) IncidentResponse {
	return IncidentResponse{
		ID:              i.ID,
		TesterID:        i.TesterID,
		TesterName:      i.TesterName,
		Type:            i.Type,
		Severity:        i.Severity,
		Title:           i.Title,
		Description:     i.Description,
		Status:          i.Status,
		Source:          i.Source,
		CrashID:         i.CrashID,
		ResolvedAt:      i.ResolvedAt,
		ResolutionNotes: i.ResolutionNotes,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToIncidentListResponse maps a page of incidents.
func ToIncidentListResponse(items []domain.Incident) []IncidentResponse {
	out := make([]IncidentResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToIncidentResponse(i))
	}
	return out
}
