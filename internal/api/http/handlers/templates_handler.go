package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// TemplatesHandler exposes email template management.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs the handler.
func NewTemplatesHandler(templates *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

// List handles GET /api/templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	items, count, err := h.templates.ListTemplates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.ToTemplateListResponse(items),
		"count": count,
	})
}

// Get handles GET /api/templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid template id", nil)
	}

	item, err := h.templates.GetTemplate(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTemplateResponse(*item)})
}

// Create handles POST /api/templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	template := &domain.EmailTemplate{
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: req.Variables,
		IsActive:  true,
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := h.templates.CreateTemplate(c.UserContext(), template); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ToTemplateResponse(*template)})
}

// Update handles PATCH /api/templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid template id", nil)
	}

	var req dto.UpdateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	patch := repository.TemplatePatch{
		Name:     req.Name,
		Subject:  req.Subject,
		Body:     req.Body,
		IsActive: req.IsActive,
	}
	if req.Variables != nil {
		patch.Variables = *req.Variables
	}

	item, err := h.templates.UpdateTemplate(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTemplateResponse(*item)})
}

// Delete handles DELETE /api/templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid template id", nil)
	}
	if err := h.templates.DeleteTemplate(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview handles POST /api/templates/:name/preview, rendering with
// placeholder data.
func (h *TemplatesHandler) Preview(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return util.NewValidationError("template name required", nil)
	}

	var req dto.PreviewTemplateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return util.NewValidationError("invalid payload", nil)
		}
	}

	subject, body, err := h.templates.Preview(c.UserContext(), name, req.TestData)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RenderedEmailResponse{Subject: subject, Body: body}})
}
