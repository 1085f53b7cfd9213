package jobs

import (
	"context"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// Function-field fakes for the repository interfaces, mirroring the
// service package's test doubles.

type fakeTesterRepo struct {
	ListAllFn func(ctx context.Context) ([]domain.Tester, error)
	GetByIDFn func(ctx context.Context, id int) (*domain.Tester, error)
	UpdateFn  func(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error)
}

func (f *fakeTesterRepo) List(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error) {
	return nil, 0, nil
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

func (f *fakeTesterRepo) Create(ctx context.Context, tester *domain.Tester) error { return nil }

func (f *fakeTesterRepo) Update(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error) {
	if f.UpdateFn == nil {
		return &domain.Tester{ID: id}, nil
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeTesterRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeIncidentRepo struct {
	HasOpenDropoutFn func(ctx context.Context, testerID int) (bool, error)
	CreateFn         func(ctx context.Context, incident *domain.Incident) error
}

func (f *fakeIncidentRepo) List(ctx context.Context, filter repository.IncidentFilter) ([]domain.Incident, int, error) {
	return nil, 0, nil
}

func (f *fakeIncidentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Incident, error) {
	return nil, nil
}

func (f *fakeIncidentRepo) ListOpen(ctx context.Context, limit int) ([]domain.Incident, error) {
	return nil, nil
}

func (f *fakeIncidentRepo) CountOpen(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeIncidentRepo) CountByTester(ctx context.Context, testerID int) (int, error) {
	return 0, nil
}

func (f *fakeIncidentRepo) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Incident, error) {
	return nil, nil
}

func (f *fakeIncidentRepo) HasOpenDropout(ctx context.Context, testerID int) (bool, error) {
	if f.HasOpenDropoutFn == nil {
		return false, nil
	}
	return f.HasOpenDropoutFn(ctx, testerID)
}

func (f *fakeIncidentRepo) GetByID(ctx context.Context, id int) (*domain.Incident, error) {
	return nil, util.NewNotFound("incident", nil)
}

func (f *fakeIncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, incident)
}

func (f *fakeIncidentRepo) Update(ctx context.Context, id int, patch repository.IncidentPatch) (*domain.Incident, error) {
	return &domain.Incident{ID: id}, nil
}

func (f *fakeIncidentRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeFeedbackRepo struct{}

func (f *fakeFeedbackRepo) List(ctx context.Context, filter repository.FeedbackFilter) ([]domain.Feedback, int, error) {
	return nil, 0, nil
}

func (f *fakeFeedbackRepo) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	return nil, nil
}

func (f *fakeFeedbackRepo) ListByStatus(ctx context.Context, status domain.FeedbackStatus, limit int) ([]domain.Feedback, error) {
	return nil, nil
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id int) (*domain.Feedback, error) {
	return nil, util.NewNotFound("feedback", nil)
}

func (f *fakeFeedbackRepo) CountByTester(ctx context.Context, testerID int) (int, error) {
	return 0, nil
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error { return nil }

func (f *fakeFeedbackRepo) Update(ctx context.Context, id int, patch repository.FeedbackPatch) (*domain.Feedback, error) {
	return &domain.Feedback{ID: id}, nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id int) error { return nil }

type fakeCommunicationRepo struct {
	CreateFn func(ctx context.Context, comm *domain.Communication) error
}

func (f *fakeCommunicationRepo) List(ctx context.Context, filter repository.CommunicationFilter) ([]domain.Communication, int, error) {
	return nil, 0, nil
}

func (f *fakeCommunicationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Communication, error) {
	return nil, nil
}

func (f *fakeCommunicationRepo) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Communication, error) {
	return nil, nil
}

func (f *fakeCommunicationRepo) GetByID(ctx context.Context, id int) (*domain.Communication, error) {
	return nil, util.NewNotFound("communication", nil)
}

func (f *fakeCommunicationRepo) Create(ctx context.Context, comm *domain.Communication) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, comm)
}

type fakeTemplateRepo struct {
	GetByNameFn func(ctx context.Context, name string) (*domain.EmailTemplate, error)
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]domain.EmailTemplate, int, error) {
	return nil, 0, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id int) (*domain.EmailTemplate, error) {
	return nil, util.NewNotFound("template", nil)
}

func (f *fakeTemplateRepo) GetByName(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	if f.GetByNameFn == nil {
		return nil, util.NewNotFound("template", nil)
	}
	return f.GetByNameFn(ctx, name)
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *domain.EmailTemplate) error {
	return nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, id int, patch repository.TemplatePatch) (*domain.EmailTemplate, error) {
	return &domain.EmailTemplate{ID: id}, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id int) error { return nil }

// fakeSender records sends.
type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}
