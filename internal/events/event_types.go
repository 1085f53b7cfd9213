package events

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTesterStageChanged EventType = "tester_stage_changed"
	EventFeedbackReceived   EventType = "feedback_received"
	EventIncidentOpened     EventType = "incident_opened"
	EventIncidentResolved   EventType = "incident_resolved"
	EventDropoutDetected    EventType = "dropout_detected"
	EventEmailSent          EventType = "email_sent"
)

// Event represents a domain event emitted by services and jobs.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TesterID  int         `json:"tester_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StageChangedPayload payload.
type StageChangedPayload struct {
	OldStage domain.TesterStage `json:"old_stage"`
	NewStage domain.TesterStage `json:"new_stage"`
}

// FeedbackReceivedPayload payload.
type FeedbackReceivedPayload struct {
	FeedbackID int                     `json:"feedback_id"`
	Type       domain.FeedbackType     `json:"type"`
	Severity   domain.FeedbackSeverity `json:"severity,omitempty"`
	Title      string                  `json:"title"`
	Public     bool                    `json:"public"`
}

// IncidentOpenedPayload payload.
type IncidentOpenedPayload struct {
	IncidentID int                     `json:"incident_id"`
	Type       domain.IncidentType     `json:"type"`
	Severity   domain.IncidentSeverity `json:"severity"`
	Source     domain.IncidentSource   `json:"source"`
	Title      string                  `json:"title"`
}

// IncidentResolvedPayload payload.
type IncidentResolvedPayload struct {
	IncidentID int    `json:"incident_id"`
	Notes      string `json:"notes,omitempty"`
}

// EmailSentPayload payload.
type EmailSentPayload struct {
	TemplateName string `json:"template_name,omitempty"`
	Subject      string `json:"subject"`
}
