package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"github.com/betaops/beta-manager/internal/config"
)

// ErrEmailDisabled is returned when the mail provider is not configured.
var ErrEmailDisabled = errors.New("email sending disabled: mail provider not configured")

// EmailSender delivers a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailService delivers HTML email through the configured SMTP provider.
type EmailService struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
	dialer *mail.Dialer
}

// NewEmailService creates the service. The dialer is nil when SMTP is
// not configured; sends then fail with ErrEmailDisabled.
func NewEmailService(cfg config.SMTPConfig, logger *zap.Logger) *EmailService {
	var dialer *mail.Dialer
	if cfg.Configured() {
		dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &EmailService{cfg: cfg, logger: logger, dialer: dialer}
}

// Enabled reports whether sending is possible.
func (e *EmailService) Enabled() bool {
	return e.dialer != nil
}

// Send delivers a single HTML email. The context is consulted before
// dialing; SMTP delivery itself is bounded by the dialer's own timeout.
func (e *EmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !e.Enabled() {
		return ErrEmailDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := e.dialer.DialAndSend(m); err != nil {
		e.logger.Error("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	e.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
