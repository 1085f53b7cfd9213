package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/service"
)

func newInactivityJob(testers *fakeTesterRepo, incidents *fakeIncidentRepo, sender *fakeSender) *InactivityJob {
	logger := zap.NewNop()
	templates := service.NewTemplateService(service.TemplateDependencies{
		TemplateRepo:      &fakeTemplateRepo{GetByNameFn: activeTemplate},
		CommunicationRepo: &fakeCommunicationRepo{},
		Email:             sender,
		Links:             config.LinksConfig{FrontendURL: "https://beta.example.com"},
		Logger:            logger,
	})
	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: incidents,
		TesterRepo:   testers,
		Logger:       logger,
	})
	return NewInactivityJob(testers, incidentService, incidents, templates, logger)
}

func TestInactivityJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("opens dropout incidents for quiet testers", func(t *testing.T) {
		quiet := daysAgo(5)
		recent := daysAgo(1)
		testers := &fakeTesterRepo{
			ListAllFn: func(ctx context.Context) ([]domain.Tester, error) {
				return []domain.Tester{
					{ID: 1, Name: "Quiet", Email: "q@example.com", Stage: domain.StageActive, LastActive: quiet},
					{ID: 2, Name: "Busy", Email: "b@example.com", Stage: domain.StageActive, LastActive: recent},
					{ID: 3, Name: "Fresh", Email: "f@example.com", Stage: domain.StageInstalled},
					{ID: 4, Name: "Done", Email: "d@example.com", Stage: domain.StageCompleted, LastActive: quiet},
				}, nil
			},
			GetByIDFn: func(ctx context.Context, id int) (*domain.Tester, error) {
				return &domain.Tester{ID: id}, nil
			},
		}
		var created []*domain.Incident
		incidents := &fakeIncidentRepo{
			CreateFn: func(ctx context.Context, incident *domain.Incident) error {
				incident.ID = 100 + len(created)
				created = append(created, incident)
				return nil
			},
		}
		sender := &fakeSender{}
		job := newInactivityJob(testers, incidents, sender)

		stats, err := job.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Processed)
		assert.Equal(t, 1, stats.IncidentsCreated)
		assert.Equal(t, 1, stats.EmailsSent)
		assert.Equal(t, 0, stats.AlreadyFlagged)

		require.Len(t, created, 1)
		incident := created[0]
		assert.Equal(t, 1, incident.TesterID)
		assert.Equal(t, domain.IncidentDropout, incident.Type)
		assert.Equal(t, domain.IncidentSeverityMajor, incident.Severity)
		assert.Equal(t, domain.IncidentStatusOpen, incident.Status)
		assert.Equal(t, domain.IncidentSourceAutomated, incident.Source)

		assert.Equal(t, []string{"q@example.com"}, sender.sent)
	})

	t.Run("does not flag a tester twice", func(t *testing.T) {
		quiet := daysAgo(5)
		testers := &fakeTesterRepo{
			ListAllFn: func(ctx context.Context) ([]domain.Tester, error) {
				return []domain.Tester{
					{ID: 1, Name: "Quiet", Email: "q@example.com", Stage: domain.StageActive, LastActive: quiet},
				}, nil
			},
		}
		var created int
		incidents := &fakeIncidentRepo{
			HasOpenDropoutFn: func(ctx context.Context, testerID int) (bool, error) {
				return true, nil
			},
			CreateFn: func(ctx context.Context, incident *domain.Incident) error {
				created++
				return nil
			},
		}
		sender := &fakeSender{}
		job := newInactivityJob(testers, incidents, sender)

		stats, err := job.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.AlreadyFlagged)
		assert.Equal(t, 0, stats.IncidentsCreated)
		assert.Zero(t, created)
		assert.Empty(t, sender.sent)
	})

	t.Run("disabled email never fails the sweep", func(t *testing.T) {
		quiet := daysAgo(5)
		testers := &fakeTesterRepo{
			ListAllFn: func(ctx context.Context) ([]domain.Tester, error) {
				return []domain.Tester{
					{ID: 1, Name: "Quiet", Email: "q@example.com", Stage: domain.StageActive, LastActive: quiet},
				}, nil
			},
			GetByIDFn: func(ctx context.Context, id int) (*domain.Tester, error) {
				return &domain.Tester{ID: id}, nil
			},
		}
		job := newInactivityJob(testers, &fakeIncidentRepo{}, &fakeSender{err: service.ErrEmailDisabled})

		stats, err := job.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.IncidentsCreated)
		assert.Equal(t, 0, stats.EmailsSent)
		assert.Equal(t, 0, stats.Errors)
	})
}
