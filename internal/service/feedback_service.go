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

// FeedbackService handles triage of tester-submitted reports.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	testers    repository.TesterRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// FeedbackDependencies bundles requirements for the feedback service.
type FeedbackDependencies struct {
	FeedbackRepo repository.FeedbackRepository
	TesterRepo   repository.TesterRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	return &FeedbackService{
		feedback:   deps.FeedbackRepo,
		testers:    deps.TesterRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// FeedbackCreateInput describes feedback creation payload.
type FeedbackCreateInput struct {
	TesterID      int
	Type          domain.FeedbackType
	Severity      domain.FeedbackSeverity
	Title         string
	Content       string
	DeviceInfo    string
	AppVersion    string
	ScreenshotURL string
}

// List returns a filtered page of feedback records.
func (s *FeedbackService) List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, int, error) {
	return s.feedback.List(ctx, filter)
}

// Get returns one feedback record.
func (s *FeedbackService) Get(ctx context.Context, id int) (*domain.Feedback, error) {
	return s.feedback.GetByID(ctx, id)
}

// Create records new feedback against a tester. The record starts in the
// new status regardless of input.
func (s *FeedbackService) Create(ctx context.Context, input FeedbackCreateInput) (*domain.Feedback, error) {
	return s.create(ctx, input, false)
}

// CreatePublic records feedback arriving through the unauthenticated
// submission form. The referenced tester must exist.
func (s *FeedbackService) CreatePublic(ctx context.Context, input FeedbackCreateInput) (*domain.Feedback, error) {
	return s.create(ctx, input, true)
}

func (s *FeedbackService) create(ctx context.Context, input FeedbackCreateInput, public bool) (*domain.Feedback, error) {
	if _, err := s.testers.GetByID(ctx, input.TesterID); err != nil {
		if util.IsNotFound(err) {
			return nil, util.NewValidationError("unknown tester", map[string]any{"tester_id": input.TesterID})
		}
		return nil, err
	}

	feedback := &domain.Feedback{
		TesterID:      input.TesterID,
		Type:          input.Type,
		Severity:      input.Severity,
		Title:         input.Title,
		Content:       input.Content,
		Status:        domain.FeedbackStatusNew,
		DeviceInfo:    input.DeviceInfo,
		AppVersion:    input.AppVersion,
		ScreenshotURL: input.ScreenshotURL,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.publishReceived(ctx, feedback, public)
	return feedback, nil
}

// Update applies a partial update to a feedback record.
func (s *FeedbackService) Update(ctx context.Context, id int, patch repository.FeedbackPatch) (*domain.Feedback, error) {
	return s.feedback.Update(ctx, id, patch)
}

// Delete removes a feedback record.
func (s *FeedbackService) Delete(ctx context.Context, id int) error {
	return s.feedback.Delete(ctx, id)
}

func (s *FeedbackService) publishReceived(ctx context.Context, feedback *domain.Feedback, public bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFeedbackReceived,
		TesterID:  feedback.TesterID,
		Timestamp: time.Now(),
		Payload: events.FeedbackReceivedPayload{
			FeedbackID: feedback.ID,
			Type:       feedback.Type,
			Severity:   feedback.Severity,
			Title:      feedback.Title,
			Public:     public,
		},
	})
}
