package service

import (
	"context"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// Function-field fakes for the repository interfaces. Unset functions
// return zero values so each test only wires what it exercises.

type fakeTesterRepo struct {
	ListFn    func(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error)
	ListAllFn func(ctx context.Context) ([]domain.Tester, error)
	GetByIDFn func(ctx context.Context, id int) (*domain.Tester, error)
	CreateFn  func(ctx context.Context, tester *domain.Tester) error
	UpdateFn  func(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error)
	DeleteFn  func(ctx context.Context, id int) error
}

func (f *fakeTesterRepo) List(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx, filter)
}

func (f *fakeTesterRepo) ListAll(ctx context.Context) ([]domain.Tester, error) {
	if f.ListAllFn == nil {
		return nil, nil
	}
	return f.ListAllFn(ctx)
}

func (f *fakeTesterRepo) GetByID(ctx context.Context, id int) (*domain.Tester, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("tester", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTesterRepo) Create(ctx context.Context, tester *domain.Tester) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, tester)
}

func (f *fakeTesterRepo) Update(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error) {
	if f.UpdateFn == nil {
		return &domain.Tester{ID: id}, nil
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeTesterRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, id)
}

type fakeFeedbackRepo struct {
	ListFn          func(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, int, error)
	ListRecentFn    func(ctx context.Context, limit int) ([]domain.Feedback, error)
	ListByStatusFn  func(ctx context.Context, status domain.FeedbackStatus, limit int) ([]domain.Feedback, error)
	GetByIDFn       func(ctx context.Context, id int) (*domain.Feedback, error)
	CountByTesterFn func(ctx context.Context, testerID int) (int, error)
	CreateFn        func(ctx context.Context, feedback *domain.Feedback) error
	UpdateFn        func(ctx context.Context, id int, patch repository.FeedbackPatch) (*domain.Feedback, error)
	DeleteFn        func(ctx context.Context, id int) error
}

func (f *fakeFeedbackRepo) List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx, filter)
}

func (f *fakeFeedbackRepo) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if f.ListRecentFn == nil {
		return nil, nil
	}
	return f.ListRecentFn(ctx, limit)
}

func (f *fakeFeedbackRepo) ListByStatus(ctx context.Context, status domain.FeedbackStatus, limit int) ([]domain.Feedback, error) {
	if f.ListByStatusFn == nil {
		return nil, nil
	}
	return f.ListByStatusFn(ctx, status, limit)
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id int) (*domain.Feedback, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("feedback", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeFeedbackRepo) CountByTester(ctx context.Context, testerID int) (int, error) {
	if f.CountByTesterFn == nil {
		return 0, nil
	}
	return f.CountByTesterFn(ctx, testerID)
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, feedback)
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, id int, patch repository.FeedbackPatch) (*domain.Feedback, error) {
	if f.UpdateFn == nil {
		return &domain.Feedback{ID: id}, nil
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, id)
}

type fakeIncidentRepo struct {
	ListFn           func(ctx context.Context, filter repository.IncidentFilter) ([]domain.Incident, int, error)
	ListRecentFn     func(ctx context.Context, limit int) ([]domain.Incident, error)
	ListOpenFn       func(ctx context.Context, limit int) ([]domain.Incident, error)
	CountOpenFn      func(ctx context.Context) (int, error)
	CountByTesterFn  func(ctx context.Context, testerID int) (int, error)
	ListByTesterFn   func(ctx context.Context, testerID, limit int) ([]domain.Incident, error)
	HasOpenDropoutFn func(ctx context.Context, testerID int) (bool, error)
	GetByIDFn        func(ctx context.Context, id int) (*domain.Incident, error)
	CreateFn         func(ctx context.Context, incident *domain.Incident) error
	UpdateFn         func(ctx context.Context, id int, patch repository.IncidentPatch) (*domain.Incident, error)
	DeleteFn         func(ctx context.Context, id int) error
}

func (f *fakeIncidentRepo) List(ctx context.Context, filter repository.IncidentFilter) ([]domain.Incident, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx, filter)
}

func (f *fakeIncidentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Incident, error) {
	if f.ListRecentFn == nil {
		return nil, nil
	}
	return f.ListRecentFn(ctx, limit)
}

func (f *fakeIncidentRepo) ListOpen(ctx context.Context, limit int) ([]domain.Incident, error) {
	if f.ListOpenFn == nil {
		return nil, nil
	}
	return f.ListOpenFn(ctx, limit)
}

func (f *fakeIncidentRepo) CountOpen(ctx context.Context) (int, error) {
	if f.CountOpenFn == nil {
		return 0, nil
	}
	return f.CountOpenFn(ctx)
}

func (f *fakeIncidentRepo) CountByTester(ctx context.Context, testerID int) (int, error) {
	if f.CountByTesterFn == nil {
		return 0, nil
	}
	return f.CountByTesterFn(ctx, testerID)
}

func (f *fakeIncidentRepo) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Incident, error) {
	if f.ListByTesterFn == nil {
		return nil, nil
	}
	return f.ListByTesterFn(ctx, testerID, limit)
}

func (f *fakeIncidentRepo) HasOpenDropout(ctx context.Context, testerID int) (bool, error) {
	if f.HasOpenDropoutFn == nil {
		return false, nil
	}
	return f.HasOpenDropoutFn(ctx, testerID)
}

func (f *fakeIncidentRepo) GetByID(ctx context.Context, id int) (*domain.Incident, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("incident", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeIncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, incident)
}

func (f *fakeIncidentRepo) Update(ctx context.Context, id int, patch repository.IncidentPatch) (*domain.Incident, error) {
	if f.UpdateFn == nil {
		return &domain.Incident{ID: id}, nil
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeIncidentRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, id)
}

type fakeCommunicationRepo struct {
	ListFn         func(ctx context.Context, filter repository.CommunicationFilter) ([]domain.Communication, int, error)
	ListRecentFn   func(ctx context.Context, limit int) ([]domain.Communication, error)
	ListByTesterFn func(ctx context.Context, testerID, limit int) ([]domain.Communication, error)
	GetByIDFn      func(ctx context.Context, id int) (*domain.Communication, error)
	CreateFn       func(ctx context.Context, comm *domain.Communication) error
}

func (f *fakeCommunicationRepo) List(ctx context.Context, filter repository.CommunicationFilter) ([]domain.Communication, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx, filter)
}

func (f *fakeCommunicationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Communication, error) {
	if f.ListRecentFn == nil {
		return nil, nil
	}
	return f.ListRecentFn(ctx, limit)
}

func (f *fakeCommunicationRepo) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Communication, error) {
	if f.ListByTesterFn == nil {
		return nil, nil
	}
	return f.ListByTesterFn(ctx, testerID, limit)
}

func (f *fakeCommunicationRepo) GetByID(ctx context.Context, id int) (*domain.Communication, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("communication", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeCommunicationRepo) Create(ctx context.Context, comm *domain.Communication) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, comm)
}

type fakeTemplateRepo struct {
	ListFn      func(ctx context.Context) ([]domain.EmailTemplate, int, error)
	GetByIDFn   func(ctx context.Context, id int) (*domain.EmailTemplate, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.EmailTemplate, error)
	CreateFn    func(ctx context.Context, template *domain.EmailTemplate) error
	UpdateFn    func(ctx context.Context, id int, patch repository.TemplatePatch) (*domain.EmailTemplate, error)
	DeleteFn    func(ctx context.Context, id int) error
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]domain.EmailTemplate, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx)
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id int) (*domain.EmailTemplate, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("template", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTemplateRepo) GetByName(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	if f.GetByNameFn == nil {
		return nil, util.NewNotFound("template", nil)
	}
	return f.GetByNameFn(ctx, name)
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *domain.EmailTemplate) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, template)
}

func (f *fakeTemplateRepo) Update(ctx context.Context, id int, patch repository.TemplatePatch) (*domain.EmailTemplate, error) {
	if f.UpdateFn == nil {
		return &domain.EmailTemplate{ID: id}, nil
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, id)
}

// fakeSender records sent emails.
type fakeSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}
