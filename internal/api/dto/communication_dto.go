package dto

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
)

// CreateCommunicationRequest payload for manually logged contact.
type CreateCommunicationRequest struct {
	TesterID  int    `json:"tester_id" validate:"required,gt=0"`
	Channel   string `json:"channel" validate:"required"`
	Direction string `json:"direction" validate:"required"`
	Subject   string `json:"subject"`
	Content   string `json:"content" validate:"required"`
	SentAt    string `json:"sent_at"`
}

// CommunicationResponse representation.
type CommunicationResponse struct {
	ID           int                           `json:"id"`
	TesterID     int                           `json:"tester_id"`
	TesterName   string                        `json:"tester_name,omitempty"`
	Channel      domain.CommunicationChannel   `json:"channel"`
	Direction    domain.CommunicationDirection `json:"direction"`
	Subject      string                        `json:"subject,omitempty"`
	Content      string                        `json:"content"`
	TemplateName string                        `json:"template_name,omitempty"`
	Status       domain.CommunicationStatus    `json:"status,omitempty"`
	SentAt       time.Time                     `json:"sent_at"`
	CreatedAt    time.Time                     `json:"created_at"`
}

// ToCommunicationResponse maps a domain communication.
func ToCommunicationResponse(c domain.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:           c.ID,
		TesterID:     c.TesterID,
		TesterName:   c.TesterName,
		Channel:      c.Channel,
		Direction:    c.Direction,
		Subject:      c.Subject,
		Content:      c.Content,
		TemplateName: c.TemplateName,
		Status:       c.Status,
		SentAt:       c.SentAt,
		CreatedAt:    c.CreatedAt,
	}
}

// ToCommunicationListResponse maps a page of communications.
func ToCommunicationListResponse(items []domain.Communication) []CommunicationResponse {
	out := make([]CommunicationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToCommunicationResponse(c))
	}
	return out
}
