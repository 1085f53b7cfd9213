package service

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/events"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// TesterService coordinates tester CRUD, lifecycle transitions and the
// per-tester timeline.
type TesterService struct {
	testers    repository.TesterRepository
	feedback   repository.FeedbackRepository
	incidents  repository.IncidentRepository
	comms      repository.CommunicationRepository
	templates  *TemplateService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TesterDependencies bundles requirements for the tester service.
type TesterDependencies struct {
	TesterRepo        repository.TesterRepository
	FeedbackRepo      repository.FeedbackRepository
	IncidentRepo      repository.IncidentRepository
	CommunicationRepo repository.CommunicationRepository
	Templates         *TemplateService
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewTesterService constructs the service.
func NewTesterService(deps TesterDependencies) *TesterService {
	return &TesterService{
		testers:    deps.TesterRepo,
		feedback:   deps.FeedbackRepo,
		incidents:  deps.IncidentRepo,
		comms:      deps.CommunicationRepo,
		templates:  deps.Templates,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// TesterWithStats augments a tester with computed lifecycle numbers.
type TesterWithStats struct {
	domain.Tester
	DaysInTest    int
	DaysRemaining int
	FeedbackCount int
	IncidentCount int
}

// TesterCreateInput describes tester creation payload.
type TesterCreateInput struct {
	Name   string
	Email  string
	Phone  string
	Source domain.TesterSource
	Notes  string
}

// List returns a filtered page of testers.
func (s *TesterService) List(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error) {
	return s.testers.List(ctx, filter)
}

// Get returns one tester with computed stats and related-record counts.
func (s *TesterService) Get(ctx context.Context, id int) (*TesterWithStats, error) {
	tester, err := s.testers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	feedbackCount, err := s.feedback.CountByTester(ctx, id)
	if err != nil {
		return nil, err
	}
	incidentCount, err := s.incidents.CountByTester(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TesterWithStats{
		Tester:        *tester,
		DaysInTest:    util.DaysInTest(tester.StartedAt),
		DaysRemaining: util.DaysRemaining(tester.StartedAt),
		FeedbackCount: feedbackCount,
		IncidentCount: incidentCount,
	}, nil
}

// Create registers a new tester in the prospect stage.
func (s *TesterService) Create(ctx context.Context, input TesterCreateInput) (*domain.Tester, error) {
	tester := &domain.Tester{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Source: input.Source,
		Stage:  domain.StageProspect,
		Notes:  input.Notes,
	}
	if err := s.testers.Create(ctx, tester); err != nil {
		return nil, err
	}
	return tester, nil
}

// Update applies a partial update. Stage changes through here bypass
// lifecycle stamping; SetStage is the transition entry point.
func (s *TesterService) Update(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error) {
	return s.testers.Update(ctx, id, patch)
}

// Delete removes a tester. Related feedback, incidents and
// communications are left in place; there is no cascade.
func (s *TesterService) Delete(ctx context.Context, id int) error {
	return s.testers.Delete(ctx, id)
}

// SetStage moves the tester to newStage and stamps lifecycle timestamps:
// invited stamps invited_at; active/onboarded stamp last_active and, on
// first activation only, started_at; completed/transitioned stamp
// completed_at. Transitions are otherwise unconstrained.
func (s *TesterService) SetStage(ctx context.Context, id int, newStage domain.TesterStage) (*domain.Tester, error) {
	if !domain.ValidStage(newStage) {
		return nil, util.NewValidationError("invalid stage", map[string]any{"stage": string(newStage)})
	}

	now := time.Now()
	patch := repository.TesterPatch{Stage: &newStage}
	var oldStage domain.TesterStage

	switch newStage {
	case domain.StageInvited:
		patch.InvitedAt = &now
	case domain.StageActive, domain.StageOnboarded:
		// First activation wins: started_at is never overwritten.
		existing, err := s.testers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		oldStage = existing.Stage
		if existing.StartedAt == nil {
			patch.StartedAt = &now
		}
		patch.LastActive = &now
	case domain.StageCompleted, domain.StageTransitioned:
		patch.CompletedAt = &now
	}

	tester, err := s.testers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publishStageChanged(ctx, tester.ID, oldStage, newStage)
	return tester, nil
}

// TimelineEntry is one item in a tester's merged history.
type TimelineEntry struct {
	Type        string            `json:"type"`
	ID          int               `json:"id"`
	Date        time.Time         `json:"date"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

const timelineFetchSize = 50

// Timeline merges communications, feedback and incidents for one tester,
// newest first.
func (s *TesterService) Timeline(ctx context.Context, id int) ([]TimelineEntry, error) {
	if _, err := s.testers.GetByID(ctx, id); err != nil {
		return nil, err
	}

	comms, err := s.comms.ListByTester(ctx, id, timelineFetchSize)
	if err != nil {
		return nil, err
	}
	feedback, _, err := s.feedback.List(ctx, repository.FeedbackFilter{TesterID: id, Page: 1, Size: timelineFetchSize})
	if err != nil {
		return nil, err
	}
	incidents, err := s.incidents.ListByTester(ctx, id, timelineFetchSize)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineEntry, 0, len(comms)+len(feedback)+len(incidents))
	for _, c := range comms {
		title := c.Subject
		if title == "" {
			title = string(c.Channel) + " " + string(c.Direction)
		}
		timeline = append(timeline, TimelineEntry{
			Type:        "communication",
			ID:          c.ID,
			Date:        c.SentAt,
			Title:       title,
			Description: truncate(c.Content, 100),
		})
	}
	for _, f := range feedback {
		timeline = append(timeline, TimelineEntry{
			Type:        "feedback",
			ID:          f.ID,
			Date:        f.CreatedAt,
			Title:       f.Title,
			Description: truncate(f.Content, 100),
			Metadata: map[string]string{
				"feedback_type": string(f.Type),
				"severity":      string(f.Severity),
			},
		})
	}
	for _, i := range incidents {
		timeline = append(timeline, TimelineEntry{
			Type:        "incident",
			ID:          i.ID,
			Date:        i.CreatedAt,
			Title:       i.Title,
			Description: truncate(i.Description, 100),
			Metadata: map[string]string{
				"incident_type": string(i.Type),
				"severity":      string(i.Severity),
				"status":        string(i.Status),
			},
		})
	}

	sort.Slice(timeline, func(a, b int) bool {
		return timeline[a].Date.After(timeline[b].Date)
	})
	return timeline, nil
}

// RenderEmail renders a template (or custom subject/body) for a tester
// without sending, for the dashboard's copy flow.
func (s *TesterService) RenderEmail(ctx context.Context, id int, templateName, subject, body string, extras map[string]string) (renderedSubject, renderedBody string, err error) {
	tester, err := s.testers.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if templateName != "" {
		return s.templates.RenderForTester(ctx, tester, templateName, extras)
	}
	variables := s.templates.StandardVariables(tester, extras)
	return Render(subject, variables), Render(body, variables), nil
}

// SendEmail sends either a named template or a custom subject/body to a
// tester.
func (s *TesterService) SendEmail(ctx context.Context, id int, templateName, subject, body string, extras map[string]string) error {
	tester, err := s.testers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if templateName != "" {
		return s.templates.SendTemplateEmail(ctx, tester, templateName, extras)
	}
	return s.templates.SendCustomEmail(ctx, tester, subject, body)
}

func (s *TesterService) publishStageChanged(ctx context.Context, testerID int, oldStage, newStage domain.TesterStage) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTesterStageChanged,
		TesterID:  testerID,
		Timestamp: time.Now(),
		Payload:   events.StageChangedPayload{OldStage: oldStage, NewStage: newStage},
	})
}

// truncate limits a timeline description to max runes without cutting
// through a multi-byte character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
