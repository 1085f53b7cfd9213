package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
)

// Scheduler runs the nightly sweeps on their cron schedules and exposes
// them for manual triggering from the API.
type Scheduler struct {
	cron       *cron.Cron
	cfg        config.JobsConfig
	dailyEmail *DailyEmailJob
	inactivity *InactivityJob
	logger     *zap.Logger

	mu      sync.Mutex
	running map[string]bool
}

// NewScheduler builds the scheduler. Start must be called to arm the
// cron entries.
func NewScheduler(cfg config.JobsConfig, dailyEmail *DailyEmailJob, inactivity *InactivityJob, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		cfg:        cfg,
		dailyEmail: dailyEmail,
		inactivity: inactivity,
		logger:     logger,
		running:    make(map[string]bool),
	}
}

// Start registers the cron entries and begins scheduling. It is a no-op
// when jobs are disabled by configuration; manual triggers still work.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduled jobs disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.DailyEmailSchedule, func() {
		_, _ = s.RunDailyEmails(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid daily email schedule %q: %w", s.cfg.DailyEmailSchedule, err)
	}

	if _, err := s.cron.AddFunc(s.cfg.InactivitySchedule, func() {
		_, _ = s.RunInactivityCheck(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid inactivity schedule %q: %w", s.cfg.InactivitySchedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduled jobs armed",
		zap.String("daily_emails", s.cfg.DailyEmailSchedule),
		zap.String("inactivity_check", s.cfg.InactivitySchedule))
	return nil
}

// Stop halts scheduling and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn("timed out waiting for running jobs")
	}
}

// RunDailyEmails executes the daily email sweep once. Concurrent runs of
// the same job are rejected.
func (s *Scheduler) RunDailyEmails(ctx context.Context) (DailyEmailStats, error) {
	var stats DailyEmailStats
	err := s.runExclusive(ctx, s.dailyEmail.Name(), func(runCtx context.Context) error {
		var runErr error
		stats, runErr = s.dailyEmail.Run(runCtx)
		return runErr
	})
	return stats, err
}

// RunInactivityCheck executes the inactivity sweep once. Concurrent runs
// of the same job are rejected.
func (s *Scheduler) RunInactivityCheck(ctx context.Context) (InactivityStats, error) {
	var stats InactivityStats
	err := s.runExclusive(ctx, s.inactivity.Name(), func(runCtx context.Context) error {
		var runErr error
		stats, runErr = s.inactivity.Run(runCtx)
		return runErr
	})
	return stats, err
}

// ErrJobRunning is returned when a job is triggered while already in
// flight.
var ErrJobRunning = fmt.Errorf("job already running")

func (s *Scheduler) runExclusive(ctx context.Context, name string, run func(context.Context) error) (err error) {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		return ErrJobRunning
	}
	s.running[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running[name] = false
		s.mu.Unlock()
	}()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("job", name), zap.String("run_id", runID))
	logger.Info("job started")
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
	}()

	if err := run(ctx); err != nil {
		logger.Error("job failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return err
	}
	logger.Info("job finished", zap.Duration("elapsed", time.Since(started)))
	return nil
}
