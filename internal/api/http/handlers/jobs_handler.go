package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/jobs"
	"github.com/betaops/beta-manager/pkg/util"
)

// JobsHandler exposes manual triggers for the scheduled sweeps.
type JobsHandler struct {
	scheduler *jobs.Scheduler
}

// NewJobsHandler constructs the handler.
func NewJobsHandler(scheduler *jobs.Scheduler) *JobsHandler {
	return &JobsHandler{scheduler: scheduler}
}

// RunDailyEmails handles POST /api/jobs/daily-emails/run.
func (h *JobsHandler) RunDailyEmails(c *fiber.Ctx) error {
	stats, err := h.scheduler.RunDailyEmails(c.UserContext())
	if err != nil {
		return jobError(err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

// RunInactivityCheck handles POST /api/jobs/inactivity-check/run.
func (h *JobsHandler) RunInactivityCheck(c *fiber.Ctx) error {
	stats, err := h.scheduler.RunInactivityCheck(c.UserContext())
	if err != nil {
		return jobError(err)
	}
	return c.JSON(fiber.Map{"data": stats})
}

func jobError(err error) error {
	if errors.Is(err, jobs.ErrJobRunning) {
		return util.NewConflict("job already running", nil)
	}
	return err
}
