package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// InactivityStats summarizes one run of the inactivity sweep.
type InactivityStats struct {
	Processed        int `json:"processed"`
	IncidentsCreated int `json:"incidents_created"`
	AlreadyFlagged   int `json:"already_flagged"`
	EmailsSent       int `json:"emails_sent"`
	Errors           int `json:"errors"`
}

// InactivityJob flags testers who have gone quiet: it opens a dropout
// incident for each inactive tester and tries a re-engagement email.
type InactivityJob struct {
	testers   repository.TesterRepository
	incidents *service.IncidentService
	openCheck repository.IncidentRepository
	templates *service.TemplateService
	logger    *zap.Logger
}

// NewInactivityJob constructs the job.
func NewInactivityJob(testers repository.TesterRepository, incidents *service.IncidentService, incidentRepo repository.IncidentRepository, templates *service.TemplateService, logger *zap.Logger) *InactivityJob {
	return &InactivityJob{
		testers:   testers,
		incidents: incidents,
		openCheck: incidentRepo,
		templates: templates,
		logger:    logger,
	}
}

// Name identifies the job in logs and the manual-trigger API.
func (j *InactivityJob) Name() string { return "inactivity_check" }

// Run sweeps testers in active stages and opens an automated dropout
// incident for each one inactive past the threshold. A tester with an
// open dropout incident is not flagged twice. The re-engagement email is
// best effort and never fails the sweep.
func (j *InactivityJob) Run(ctx context.Context) (InactivityStats, error) {
	var stats InactivityStats

	testers, err := j.testers.ListAll(ctx)
	if err != nil {
		return stats, err
	}

	for _, tester := range testers {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if !domain.InActiveStage(tester.Stage) {
			continue
		}
		if !util.IsInactive(tester.LastActive, domain.InactivityThresholdDays) {
			continue
		}
		stats.Processed++

		flagged, err := j.openCheck.HasOpenDropout(ctx, tester.ID)
		if err != nil {
			j.logger.Warn("dropout lookup failed",
				zap.Int("tester_id", tester.ID),
				zap.Error(err))
			stats.Errors++
			continue
		}
		if flagged {
			stats.AlreadyFlagged++
			continue
		}

		if err := j.openDropout(ctx, tester); err != nil {
			stats.Errors++
			continue
		}
		stats.IncidentsCreated++

		if j.sendReengagement(ctx, tester) {
			stats.EmailsSent++
		}
	}

	j.logger.Info("inactivity sweep finished",
		zap.Int("processed", stats.Processed),
		zap.Int("incidents_created", stats.IncidentsCreated),
		zap.Int("already_flagged", stats.AlreadyFlagged),
		zap.Int("emails_sent", stats.EmailsSent),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

func (j *InactivityJob) openDropout(ctx context.Context, tester domain.Tester) error {
	days := 0
	if tester.LastActive != nil {
		days = int(time.Since(*tester.LastActive).Hours() / 24)
	}

	_, err := j.incidents.Create(ctx, service.IncidentCreateInput{
		TesterID:    tester.ID,
		Type:        domain.IncidentDropout,
		Severity:    domain.IncidentSeverityMajor,
		Title:       fmt.Sprintf("Tester inactive: %s", tester.Name),
		Description: fmt.Sprintf("No recorded activity for %d days (threshold %d).", days, domain.InactivityThresholdDays),
		Source:      domain.IncidentSourceAutomated,
	})
	if err != nil {
		j.logger.Error("could not open dropout incident",
			zap.Int("tester_id", tester.ID),
			zap.Error(err))
	}
	return err
}

func (j *InactivityJob) sendReengagement(ctx context.Context, tester domain.Tester) bool {
	err := j.templates.SendTemplateEmail(ctx, &tester, domain.TemplateReengagement, nil)
	if err == nil {
		return true
	}
	if errors.Is(err, service.ErrEmailDisabled) || util.IsNotFound(err) {
		j.logger.Debug("re-engagement email unavailable",
			zap.Int("tester_id", tester.ID),
			zap.Error(err))
		return false
	}
	j.logger.Warn("re-engagement email failed",
		zap.Int("tester_id", tester.ID),
		zap.Error(err))
	return false
}
