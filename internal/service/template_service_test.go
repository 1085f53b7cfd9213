package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/events"
	"github.com/betaops/beta-manager/pkg/util"
)

func TestRender(t *testing.T) {
	t.Run("substitutes placeholders", func(t *testing.T) {
		out := Render("Hi {{name}}, {{days_remaining}} days left", map[string]string{
			"name":           "Ada",
			"days_remaining": "7",
		})
		assert.Equal(t, "Hi Ada, 7 days left", out)
	})

	t.Run("unknown placeholders stay put", func(t *testing.T) {
		out := Render("Hi {{name}}, click {{missing}}", map[string]string{"name": "Ada"})
		assert.Equal(t, "Hi Ada, click {{missing}}", out)
	})

	t.Run("repeated placeholders all render", func(t *testing.T) {
		out := Render("{{name}} and {{name}}", map[string]string{"name": "Ada"})
		assert.Equal(t, "Ada and Ada", out)
	})

	t.Run("empty value renders empty", func(t *testing.T) {
		out := Render("x{{gone}}y", map[string]string{"gone": ""})
		assert.Equal(t, "xy", out)
	})
}

func newTemplateService(templates *fakeTemplateRepo, comms *fakeCommunicationRepo, sender *fakeSender, dispatcher events.Dispatcher) *TemplateService {
	if comms == nil {
		comms = &fakeCommunicationRepo{}
	}
	return NewTemplateService(TemplateDependencies{
		TemplateRepo:      templates,
		CommunicationRepo: comms,
		Email:             sender,
		Links: config.LinksConfig{
			FrontendURL:   "https://beta.example.com",
			PlayStoreLink: "https://play.example.com/app",
		},
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
}

func TestStandardVariables(t *testing.T) {
	started := time.Now().Add(-3*24*time.Hour - time.Hour)
	tester := &domain.Tester{ID: 42, Name: "Ada", Email: "ada@example.com", StartedAt: &started}

	svc := newTemplateService(&fakeTemplateRepo{}, nil, &fakeSender{}, nil)
	vars := svc.StandardVariables(tester, map[string]string{"custom": "extra"})

	assert.Equal(t, "Ada", vars["name"])
	assert.Equal(t, "ada@example.com", vars["email"])
	assert.Equal(t, "3", vars["days_in_test"])
	assert.Equal(t, "11", vars["days_remaining"])
	assert.Equal(t, "https://beta.example.com/public/feedback?tester=42", vars["feedback_link"])
	assert.Equal(t, "https://play.example.com/app", vars["play_store_link"])
	assert.Equal(t, "extra", vars["custom"])
}

func TestSendTemplateEmail(t *testing.T) {
	ctx := context.Background()
	tester := &domain.Tester{ID: 7, Name: "Ada", Email: "ada@example.com"}

	t.Run("renders, sends, logs and publishes", func(t *testing.T) {
		templates := &fakeTemplateRepo{
			GetByNameFn: func(ctx context.Context, name string) (*domain.EmailTemplate, error) {
				return &domain.EmailTemplate{
					Name:     name,
					Subject:  "Day 3, {{name}}",
					Body:     "<p>Hello {{name}}</p>",
					IsActive: true,
				}, nil
			},
		}
		var logged []*domain.Communication
		comms := &fakeCommunicationRepo{
			CreateFn: func(ctx context.Context, comm *domain.Communication) error {
				logged = append(logged, comm)
				return nil
			},
		}
		sender := &fakeSender{}
		dispatcher := events.NewInMemoryDispatcher()
		var published []events.Event
		dispatcher.Subscribe(events.EventEmailSent, func(ctx context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		})

		svc := newTemplateService(templates, comms, sender, dispatcher)

		err := svc.SendTemplateEmail(ctx, tester, domain.TemplateDay3Checkin, nil)
		require.NoError(t, err)

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ada@example.com", sender.sent[0].To)
		assert.Equal(t, "Day 3, Ada", sender.sent[0].Subject)
		assert.Equal(t, "<p>Hello Ada</p>", sender.sent[0].Body)

		require.Len(t, logged, 1)
		assert.Equal(t, 7, logged[0].TesterID)
		assert.Equal(t, domain.ChannelEmail, logged[0].Channel)
		assert.Equal(t, domain.DirectionOutbound, logged[0].Direction)
		assert.Equal(t, domain.TemplateDay3Checkin, logged[0].TemplateName)

		require.Len(t, published, 1)
		assert.Equal(t, 7, published[0].TesterID)
	})

	t.Run("inactive template is rejected", func(t *testing.T) {
		templates := &fakeTemplateRepo{
			GetByNameFn: func(ctx context.Context, name string) (*domain.EmailTemplate, error) {
				return &domain.EmailTemplate{Name: name, IsActive: false}, nil
			},
		}
		sender := &fakeSender{}
		svc := newTemplateService(templates, nil, sender, nil)

		err := svc.SendTemplateEmail(ctx, tester, domain.TemplateDay3Checkin, nil)
		require.Error(t, err)
		assert.True(t, util.IsNotFound(err))
		assert.Empty(t, sender.sent)
	})

	t.Run("disabled provider surfaces ErrEmailDisabled", func(t *testing.T) {
		templates := &fakeTemplateRepo{
			GetByNameFn: func(ctx context.Context, name string) (*domain.EmailTemplate, error) {
				return &domain.EmailTemplate{Name: name, Subject: "s", Body: "b", IsActive: true}, nil
			},
		}
		var logged int
		comms := &fakeCommunicationRepo{
			CreateFn: func(ctx context.Context, comm *domain.Communication) error {
				logged++
				return nil
			},
		}
		svc := newTemplateService(templates, comms, &fakeSender{err: ErrEmailDisabled}, nil)

		err := svc.SendTemplateEmail(ctx, tester, domain.TemplateDay3Checkin, nil)
		assert.ErrorIs(t, err, ErrEmailDisabled)
		assert.Zero(t, logged)
	})
}
