package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/events"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// IncidentService tracks problems affecting testers or the program.
type IncidentService struct {
	incidents  repository.IncidentRepository
	testers    repository.TesterRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IncidentDependencies bundles requirements for the incident service.
type IncidentDependencies struct {
	IncidentRepo repository.IncidentRepository
	TesterRepo   repository.TesterRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewIncidentService constructs the service.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	return &IncidentService{
		incidents:  deps.IncidentRepo,
		testers:    deps.TesterRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// IncidentCreateInput describes incident creation payload.
type IncidentCreateInput struct {
	TesterID    int
	Type        domain.IncidentType
	Severity    domain.IncidentSeverity
	Title       string
	Description string
	Source      domain.IncidentSource
	CrashID     string
}

// List returns a filtered page of incidents.
func (s *IncidentService) List(ctx context.Context, filter repository.IncidentFilter) ([]domain.Incident, int, error) {
	return s.incidents.List(ctx, filter)
}

// Get returns one incident.
func (s *IncidentService) Get(ctx context.Context, id int) (*domain.Incident, error) {
	return s.incidents.GetByID(ctx, id)
}

// Create opens a new incident. TesterID 0 records a program-wide
// incident without a tester link.
func (s *IncidentService) Create(ctx context.Context, input IncidentCreateInput) (*domain.Incident, error) {
	if input.TesterID != 0 {
		if _, err := s.testers.GetByID(ctx, input.TesterID); err != nil {
			if util.IsNotFound(err) {
				return nil, util.NewValidationError("unknown tester", map[string]any{"tester_id": input.TesterID})
			}
			return nil, err
		}
	}

	source := input.Source
	if source == "" {
		source = domain.IncidentSourceManual
	}

	incident := &domain.Incident{
		TesterID:    input.TesterID,
		Type:        input.Type,
		Severity:    input.Severity,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.IncidentStatusOpen,
		Source:      source,
		CrashID:     input.CrashID,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.publishOpened(ctx, incident)
	return incident, nil
}

// Update applies a partial update. Moving status to resolved stamps
// resolved_at unless the patch already carries one.
func (s *IncidentService) Update(ctx context.Context, id int, patch repository.IncidentPatch) (*domain.Incident, error) {
	resolving := patch.Status != nil && *patch.Status == domain.IncidentStatusResolved
	if resolving && patch.ResolvedAt == nil {
		now := time.Now()
		patch.ResolvedAt = &now
	}

	incident, err := s.incidents.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if resolving {
		s.publishResolved(ctx, incident)
	}
	return incident, nil
}

// Delete removes an incident.
func (s *IncidentService) Delete(ctx context.Context, id int) error {
	return s.incidents.Delete(ctx, id)
}

func (s *IncidentService) publishOpened(ctx context.Context, incident *domain.Incident) {
	if s.dispatcher == nil {
		return
	}
	eventType := events.EventIncidentOpened
	if incident.Type == domain.IncidentDropout {
		eventType = events.EventDropoutDetected
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TesterID:  incident.TesterID,
		Timestamp: time.Now(),
		Payload: events.IncidentOpenedPayload{
			IncidentID: incident.ID,
			Type:       incident.Type,
			Severity:   incident.Severity,
			Source:     incident.Source,
			Title:      incident.Title,
		},
	})
}

func (s *IncidentService) publishResolved(ctx context.Context, incident *domain.Incident) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventIncidentResolved,
		TesterID:  incident.TesterID,
		Timestamp: time.Now(),
		Payload: events.IncidentResolvedPayload{
			IncidentID: incident.ID,
			Notes:      incident.ResolutionNotes,
		},
	})
}
