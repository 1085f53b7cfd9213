package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// TestersHandler exposes tester CRUD and lifecycle endpoints.
type TestersHandler struct {
	testers *service.TesterService
}

// NewTestersHandler constructs the handler.
func NewTestersHandler(testers *service.TesterService) *TestersHandler {
	return &TestersHandler{testers: testers}
}

// List handles GET /api/testers.
func (h *TestersHandler) List(c *fiber.Ctx) error {
	filter := repository.TesterFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("order_by"),
		Page:    c.QueryInt("page", 1),
		Size:    c.QueryInt("size", 0),
	}
	if stage := c.Query("stage"); stage != "" {
		if !domain.ValidStage(domain.TesterStage(stage)) {
			return util.NewValidationError("invalid stage filter", map[string]any{"stage": stage})
		}
		filter.Stage = domain.TesterStage(stage)
	}
	if source := c.Query("source"); source != "" {
		if !domain.ValidSource(domain.TesterSource(source)) {
			return util.NewValidationError("invalid source filter", map[string]any{"source": source})
		}
		filter.Source = domain.TesterSource(source)
	}

	testers, count, err := h.testers.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(dto.ToTesterListResponse(testers), count, filter.Page, filter.Size))
}

// Get handles GET /api/testers/:id.
func (h *TestersHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid tester id", nil)
	}

	tester, err := h.testers.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTesterDetailResponse(tester)})
}

// Create handles POST /api/testers.
func (h *TestersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTesterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if !domain.ValidSource(domain.TesterSource(req.Source)) {
		return util.NewValidationError("invalid source", map[string]any{"source": req.Source})
	}

	tester, err := h.testers.Create(c.UserContext(), service.TesterCreateInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: domain.TesterSource(req.Source),
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ToTesterResponse(*tester)})
}

// Update handles PATCH /api/testers/:id.
func (h *TestersHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid tester id", nil)
	}

	var req dto.UpdateTesterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	patch := repository.TesterPatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if req.Source != nil {
		source := domain.TesterSource(*req.Source)
		if !domain.ValidSource(source) {
			return util.NewValidationError("invalid source", map[string]any{"source": *req.Source})
		}
		patch.Source = &source
	}

	tester, err := h.testers.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTesterResponse(*tester)})
}

// Delete handles DELETE /api/testers/:id.
func (h *TestersHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid tester id", nil)
	}
	if err := h.testers.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetStage handles POST /api/testers/:id/stage.
func (h *TestersHandler) SetStage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid tester id", nil)
	}

	var req dto.SetStageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	tester, err := h.testers.SetStage(c.UserContext(), id, domain.TesterStage(req.Stage))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTesterResponse(*tester)})
}

// Timeline handles GET /api/testers/:id/timeline.
func (h *TestersHandler) Timeline(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid tester id", nil)
	}

	timeline, err := h.testers.Timeline(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timeline})
}

// RenderEmail handles POST /api/testers/:id/render-email.
func (h *TestersHandler) RenderEmail(c *fiber.Ctx) error {
	id, req, err := h.emailRequest(c)
	if err != nil {
		return err
	}

	subject, body, err := h.testers.RenderEmail(c.UserContext(), id, req.TemplateName, req.Subject, req.Body, req.Variables)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RenderedEmailResponse{Subject: subject, Body: body}})
}

// SendEmail handles POST /api/testers/:id/send-email.
func (h *TestersHandler) SendEmail(c *fiber.Ctx) error {
	id, req, err := h.emailRequest(c)
	if err != nil {
		return err
	}

	if err := h.testers.SendEmail(c.UserContext(), id, req.TemplateName, req.Subject, req.Body, req.Variables); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

func (h *TestersHandler) emailRequest(c *fiber.Ctx) (int, *dto.SendEmailRequest, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, nil, util.NewValidationError("invalid tester id", nil)
	}

	var req dto.SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, nil, util.NewValidationError("invalid payload", nil)
	}
	if req.TemplateName == "" && (req.Subject == "" || req.Body == "") {
		return 0, nil, util.NewValidationError("template_name or subject and body required", nil)
	}
	return id, &req, nil
}
