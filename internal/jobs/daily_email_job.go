package jobs

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// emailSchedule maps day-in-test to the template sent on that day. Days
// without an entry are skipped.
var emailSchedule = map[int]string{
	3:  domain.TemplateDay3Checkin,
	7:  domain.TemplateDay7Checkin,
	12: domain.TemplateDay12FinalPush,
	14: domain.TemplateDay14Completion,
}

// DailyEmailStats summarizes one run of the daily email sweep.
type DailyEmailStats struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// DailyEmailJob sends day-scheduled lifecycle emails and completes
// testers who reach the end of the test window.
type DailyEmailJob struct {
	testers   repository.TesterRepository
	lifecycle *service.TesterService
	templates *service.TemplateService
	logger    *zap.Logger
}

// NewDailyEmailJob constructs the job.
func NewDailyEmailJob(testers repository.TesterRepository, lifecycle *service.TesterService, templates *service.TemplateService, logger *zap.Logger) *DailyEmailJob {
	return &DailyEmailJob{
		testers:   testers,
		lifecycle: lifecycle,
		templates: templates,
		logger:    logger,
	}
}

// Name identifies the job in logs and the manual-trigger API.
func (j *DailyEmailJob) Name() string { return "daily_emails" }

// Run sweeps every tester in an active stage with a started test. A
// tester at or past the final day gets the completion email and moves to
// the completed stage; on scheduled days the matching check-in template
// is sent; all other days are skipped. Per-tester failures are counted
// and logged, never fatal to the sweep.
func (j *DailyEmailJob) Run(ctx context.Context) (DailyEmailStats, error) {
	var stats DailyEmailStats

	testers, err := j.testers.ListAll(ctx)
	if err != nil {
		return stats, err
	}

	for _, tester := range testers {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if !domain.InActiveStage(tester.Stage) || tester.StartedAt == nil {
			continue
		}
		stats.Processed++

		days := util.DaysInTest(tester.StartedAt)
		switch {
		case days >= util.TestDurationDays:
			j.completeTester(ctx, tester, &stats)
		default:
			templateName, scheduled := emailSchedule[days]
			if !scheduled {
				stats.Skipped++
				continue
			}
			switch err := j.sendScheduled(ctx, tester, templateName); {
			case err == nil:
				stats.Sent++
			case errors.Is(err, service.ErrEmailDisabled):
				stats.Skipped++
			default:
				stats.Errors++
			}
		}
	}

	j.logger.Info("daily email sweep finished",
		zap.Int("processed", stats.Processed),
		zap.Int("sent", stats.Sent),
		zap.Int("completed", stats.Completed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

func (j *DailyEmailJob) completeTester(ctx context.Context, tester domain.Tester, stats *DailyEmailStats) {
	// The completion email goes out before the stage flips so a send
	// failure does not leave the tester completed but unnotified.
	if err := j.templates.SendTemplateEmail(ctx, &tester, domain.TemplateDay14Completion, nil); err != nil && !errors.Is(err, service.ErrEmailDisabled) {
		j.logger.Warn("completion email failed",
			zap.Int("tester_id", tester.ID),
			zap.Error(err))
		stats.Errors++
		return
	} else if err == nil {
		stats.Sent++
	}

	if _, err := j.lifecycle.SetStage(ctx, tester.ID, domain.StageCompleted); err != nil {
		j.logger.Error("could not mark tester completed",
			zap.Int("tester_id", tester.ID),
			zap.Error(err))
		stats.Errors++
		return
	}
	stats.Completed++
}

func (j *DailyEmailJob) sendScheduled(ctx context.Context, tester domain.Tester, templateName string) error {
	err := j.templates.SendTemplateEmail(ctx, &tester, templateName, nil)
	if errors.Is(err, service.ErrEmailDisabled) {
		j.logger.Debug("email sending disabled, skipping scheduled send",
			zap.Int("tester_id", tester.ID),
			zap.String("template", templateName))
		return err
	}
	if err != nil {
		j.logger.Warn("scheduled email failed",
			zap.Int("tester_id", tester.ID),
			zap.String("template", templateName),
			zap.Error(err))
	}
	return err
}
