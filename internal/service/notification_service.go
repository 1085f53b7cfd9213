package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/events"
)

// NotificationService forwards domain events to an operator webhook and
// the log. The webhook is best effort; delivery failures never surface
// to the publisher.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	http       *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		http:       resty.New().SetTimeout(timeout),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTesterStageChanged, n.handleStageChanged)
	n.dispatcher.Subscribe(events.EventFeedbackReceived, n.handleFeedbackReceived)
	n.dispatcher.Subscribe(events.EventIncidentOpened, n.handleIncidentOpened)
	n.dispatcher.Subscribe(events.EventIncidentResolved, n.handleIncidentResolved)
	n.dispatcher.Subscribe(events.EventDropoutDetected, n.handleDropoutDetected)
	n.dispatcher.Subscribe(events.EventEmailSent, n.handleEmailSent)
}

func (n *NotificationService) handleStageChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TesterStageChanged", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleFeedbackReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("FeedbackReceived", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleIncidentOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("IncidentOpened", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleIncidentResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("IncidentResolved", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDropoutDetected(ctx context.Context, event events.Event) error {
	n.logger.Warn("DropoutDetected", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleEmailSent(ctx context.Context, event events.Event) error {
	n.logger.Info("EmailSent", zap.Int("tester_id", event.TesterID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(n.cfg.WebhookURL)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("webhook rejected",
			zap.String("event_type", string(event.Type)),
			zap.Int("status", resp.StatusCode()))
	}
}
