package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/events"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// TemplateService renders {{variable}} templates and sends them as email,
// logging every successful send to the communications table.
type TemplateService struct {
	templates  repository.TemplateRepository
	comms      repository.CommunicationRepository
	email      EmailSender
	links      config.LinksConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TemplateDependencies bundles requirements for the template service.
type TemplateDependencies struct {
	TemplateRepo      repository.TemplateRepository
	CommunicationRepo repository.CommunicationRepository
	Email             EmailSender
	Links             config.LinksConfig
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewTemplateService constructs the service.
func NewTemplateService(deps TemplateDependencies) *TemplateService {
	return &TemplateService{
		templates:  deps.TemplateRepo,
		comms:      deps.CommunicationRepo,
		email:      deps.Email,
		links:      deps.Links,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Render substitutes {{key}} placeholders. Unknown placeholders are left
// in place; a variable mapped to the empty string renders empty.
func Render(template string, variables map[string]string) string {
	rendered := template
	for key, value := range variables {
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", value)
	}
	return rendered
}

// StandardVariables builds the variable set every tester email can use.
// Extras override the standard values on key collision.
func (s *TemplateService) StandardVariables(tester *domain.Tester, extras map[string]string) map[string]string {
	variables := map[string]string{
		"name":            tester.Name,
		"email":           tester.Email,
		"days_in_test":    strconv.Itoa(util.DaysInTest(tester.StartedAt)),
		"days_remaining":  strconv.Itoa(util.DaysRemaining(tester.StartedAt)),
		"feedback_link":   fmt.Sprintf("%s/public/feedback?tester=%d", s.links.FrontendURL, tester.ID),
		"play_store_link": s.links.PlayStoreLink,
	}
	for key, value := range extras {
		variables[key] = value
	}
	return variables
}

// activeTemplate fetches a template by name and rejects inactive ones.
func (s *TemplateService) activeTemplate(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	template, err := s.templates.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		s.logger.Warn("template exists but is not active", zap.String("template", name))
		return nil, util.NewNotFound("active template", map[string]any{"name": name})
	}
	return template, nil
}

// RenderForTester renders a named template against a tester without
// sending anything. Used by the dashboard's copy-to-clipboard flow.
func (s *TemplateService) RenderForTester(ctx context.Context, tester *domain.Tester, name string, extras map[string]string) (subject, body string, err error) {
	template, err := s.activeTemplate(ctx, name)
	if err != nil {
		return "", "", err
	}
	variables := s.StandardVariables(tester, extras)
	return Render(template.Subject, variables), Render(template.Body, variables), nil
}

// SendTemplateEmail renders a named template and emails it to the
// tester, then logs a Communication. A failed log does not undo the
// send and is not reported as a failure.
func (s *TemplateService) SendTemplateEmail(ctx context.Context, tester *domain.Tester, name string, extras map[string]string) error {
	subject, body, err := s.RenderForTester(ctx, tester, name, extras)
	if err != nil {
		return err
	}
	if err := s.email.Send(ctx, tester.Email, subject, body); err != nil {
		return err
	}
	s.logCommunication(ctx, tester.ID, subject, body, name)
	s.publishEmailSent(ctx, tester.ID, name, subject)
	return nil
}

// SendCustomEmail renders ad-hoc subject/body against the tester's
// standard variables and emails the result.
func (s *TemplateService) SendCustomEmail(ctx context.Context, tester *domain.Tester, subject, body string) error {
	variables := s.StandardVariables(tester, nil)
	renderedSubject := Render(subject, variables)
	renderedBody := Render(body, variables)

	if err := s.email.Send(ctx, tester.Email, renderedSubject, renderedBody); err != nil {
		return err
	}
	s.logCommunication(ctx, tester.ID, renderedSubject, renderedBody, "")
	s.publishEmailSent(ctx, tester.ID, "", renderedSubject)
	return nil
}

// Preview renders a named template with placeholder test data.
func (s *TemplateService) Preview(ctx context.Context, name string, testData map[string]string) (subject, body string, err error) {
	template, err := s.activeTemplate(ctx, name)
	if err != nil {
		return "", "", err
	}
	variables := map[string]string{
		"name":            "Test User",
		"email":           "test@example.com",
		"days_in_test":    "7",
		"days_remaining":  "7",
		"feedback_link":   fmt.Sprintf("%s/public/feedback?tester=1", s.links.FrontendURL),
		"play_store_link": s.links.PlayStoreLink,
	}
	for key, value := range testData {
		variables[key] = value
	}
	return Render(template.Subject, variables), Render(template.Body, variables), nil
}

func (s *TemplateService) logCommunication(ctx context.Context, testerID int, subject, content, templateName string) {
	comm := &domain.Communication{
		TesterID:     testerID,
		Channel:      domain.ChannelEmail,
		Direction:    domain.DirectionOutbound,
		Subject:      subject,
		Content:      content,
		TemplateName: templateName,
		Status:       domain.CommStatusSent,
		SentAt:       time.Now(),
	}
	if err := s.comms.Create(ctx, comm); err != nil {
		// The email already went out; a missing audit row is logged, not fatal.
		s.logger.Error("failed to log communication",
			zap.Int("tester_id", testerID),
			zap.Error(err))
	}
}

func (s *TemplateService) publishEmailSent(ctx context.Context, testerID int, templateName, subject string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEmailSent,
		TesterID:  testerID,
		Timestamp: time.Now(),
		Payload:   events.EmailSentPayload{TemplateName: templateName, Subject: subject},
	})
}

// Template CRUD pass-throughs.

// ListTemplates returns all templates.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.EmailTemplate, int, error) {
	return s.templates.List(ctx)
}

// GetTemplate returns one template by id.
func (s *TemplateService) GetTemplate(ctx context.Context, id int) (*domain.EmailTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

// CreateTemplate stores a new template.
func (s *TemplateService) CreateTemplate(ctx context.Context, template *domain.EmailTemplate) error {
	return s.templates.Create(ctx, template)
}

// UpdateTemplate applies a partial update.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id int, patch repository.TemplatePatch) (*domain.EmailTemplate, error) {
	return s.templates.Update(ctx, id, patch)
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id int) error {
	return s.templates.Delete(ctx, id)
}
