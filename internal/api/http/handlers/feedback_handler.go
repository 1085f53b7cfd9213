package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// FeedbackHandler exposes feedback triage endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// List handles GET /api/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	filter := repository.FeedbackFilter{
		TesterID: c.QueryInt("tester_id", 0),
		Page:     c.QueryInt("page", 1),
		Size:     c.QueryInt("size", 0),
	}
	if t := c.Query("type"); t != "" {
		filter.Type = domain.FeedbackType(t)
	}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.FeedbackStatus(status)
	}
	if severity := c.Query("severity"); severity != "" {
		filter.Severity = domain.FeedbackSeverity(severity)
	}

	items, count, err := h.feedback.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(dto.ToFeedbackListResponse(items), count, filter.Page, filter.Size))
}

// Get handles GET /api/feedback/:id.
func (h *FeedbackHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid feedback id", nil)
	}

	item, err := h.feedback.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToFeedbackResponse(*item)})
}

// Create handles POST /api/feedback.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	item, err := h.feedback.Create(c.UserContext(), feedbackInput(req.TesterID, req.Type, req.Severity, req.Title, req.Content, req.DeviceInfo, req.AppVersion, req.ScreenshotURL))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ToFeedbackResponse(*item)})
}

// Update handles PATCH /api/feedback/:id.
func (h *FeedbackHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid feedback id", nil)
	}

	var req dto.UpdateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	patch := repository.FeedbackPatch{
		Title:      req.Title,
		Content:    req.Content,
		AdminNotes: req.AdminNotes,
	}
	if req.Type != nil {
		feedbackType := domain.FeedbackType(*req.Type)
		patch.Type = &feedbackType
	}
	if req.Severity != nil {
		severity := domain.FeedbackSeverity(*req.Severity)
		patch.Severity = &severity
	}
	if req.Status != nil {
		status := domain.FeedbackStatus(*req.Status)
		patch.Status = &status
	}

	item, err := h.feedback.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToFeedbackResponse(*item)})
}

// Delete handles DELETE /api/feedback/:id.
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid feedback id", nil)
	}
	if err := h.feedback.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func feedbackInput(testerID int, feedbackType, severity, title, content, deviceInfo, appVersion, screenshotURL string) service.FeedbackCreateInput {
	return service.FeedbackCreateInput{
		TesterID:      testerID,
		Type:          domain.FeedbackType(feedbackType),
		Severity:      domain.FeedbackSeverity(severity),
		Title:         title,
		Content:       content,
		DeviceInfo:    deviceInfo,
		AppVersion:    appVersion,
		ScreenshotURL: screenshotURL,
	}
}
