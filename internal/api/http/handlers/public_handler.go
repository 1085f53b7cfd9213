package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// PublicHandler exposes the unauthenticated feedback submission form.
type PublicHandler struct {
	feedback *service.FeedbackService
}

// NewPublicHandler constructs the handler.
func NewPublicHandler(feedback *service.FeedbackService) *PublicHandler {
	return &PublicHandler{feedback: feedback}
}

// SubmitFeedback handles POST /public/feedback. The response leaks no
// record details beyond an acknowledgement.
func (h *PublicHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.PublicFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	item, err := h.feedback.CreatePublic(c.UserContext(), feedbackInput(req.TesterID, req.Type, req.Severity, req.Title, req.Content, req.DeviceInfo, req.AppVersion, req.ScreenshotURL))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"received": true,
		"id":       item.ID,
	}})
}
