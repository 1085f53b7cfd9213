package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// IncidentsHandler exposes incident tracking endpoints.
type IncidentsHandler struct {
	incidents *service.IncidentService
}

// NewIncidentsHandler constructs the handler.
func NewIncidentsHandler(incidents *service.IncidentService) *IncidentsHandler {
	return &IncidentsHandler{incidents: incidents}
}

// List handles GET /api/incidents.
func (h *IncidentsHandler) List(c *fiber.Ctx) error {
	filter := repository.IncidentFilter{
		TesterID: c.QueryInt("tester_id", 0),
		Page:     c.QueryInt("page", 1),
		Size:     c.QueryInt("size", 0),
	}
	if t := c.Query("type"); t != "" {
		filter.Type = domain.IncidentType(t)
	}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.IncidentStatus(status)
	}
	if severity := c.Query("severity"); severity != "" {
		filter.Severity = domain.IncidentSeverity(severity)
	}

	items, count, err := h.incidents.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(dto.ToIncidentListResponse(items), count, filter.Page, filter.Size))
}

// Get handles GET /api/incidents/:id.
func (h *IncidentsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid incident id", nil)
	}

	item, err := h.incidents.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToIncidentResponse(*item)})
}

// Create handles POST /api/incidents.
func (h *IncidentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	item, err := h.incidents.Create(c.UserContext(), service.IncidentCreateInput{
		TesterID:    req.TesterID,
		Type:        domain.IncidentType(req.Type),
		Severity:    domain.IncidentSeverity(req.Severity),
		Title:       req.Title,
		Description: req.Description,
		Source:      domain.IncidentSource(req.Source),
		CrashID:     req.CrashID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ToIncidentResponse(*item)})
}

// Update handles PATCH /api/incidents/:id.
func (h *IncidentsHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid incident id", nil)
	}

	var req dto.UpdateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	patch := repository.IncidentPatch{
		Title:           req.Title,
		Description:     req.Description,
		ResolutionNotes: req.ResolutionNotes,
	}
	if req.Type != nil {
		incidentType := domain.IncidentType(*req.Type)
		patch.Type = &incidentType
	}
	if req.Severity != nil {
		severity := domain.IncidentSeverity(*req.Severity)
		patch.Severity = &severity
	}
	if req.Status != nil {
		status := domain.IncidentStatus(*req.Status)
		patch.Status = &status
	}

	item, err := h.incidents.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToIncidentResponse(*item)})
}

// Delete handles DELETE /api/incidents/:id.
func (h *IncidentsHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid incident id", nil)
	}
	if err := h.incidents.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
