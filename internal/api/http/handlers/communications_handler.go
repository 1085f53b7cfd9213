package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// CommunicationsHandler exposes the contact log.
type CommunicationsHandler struct {
	comms *service.CommunicationService
}

// NewCommunicationsHandler constructs the handler.
func NewCommunicationsHandler(comms *service.CommunicationService) *CommunicationsHandler {
	return &CommunicationsHandler{comms: comms}
}

// List handles GET /api/communications.
func (h *CommunicationsHandler) List(c *fiber.Ctx) error {
	filter := repository.CommunicationFilter{
		TesterID: c.QueryInt("tester_id", 0),
		Page:     c.QueryInt("page", 1),
		Size:     c.QueryInt("size", 0),
	}
	if channel := c.Query("channel"); channel != "" {
		filter.Channel = domain.CommunicationChannel(channel)
	}
	if direction := c.Query("direction"); direction != "" {
		filter.Direction = domain.CommunicationDirection(direction)
	}

	items, count, err := h.comms.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(dto.ToCommunicationListResponse(items), count, filter.Page, filter.Size))
}

// Get handles GET /api/communications/:id.
func (h *CommunicationsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.NewValidationError("invalid communication id", nil)
	}

	item, err := h.comms.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToCommunicationResponse(*item)})
}

// Create handles POST /api/communications for manually logged contact.
func (h *CommunicationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCommunicationRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comm := &domain.Communication{
		TesterID:  req.TesterID,
		Channel:   domain.CommunicationChannel(req.Channel),
		Direction: domain.CommunicationDirection(req.Direction),
		Subject:   req.Subject,
		Content:   req.Content,
	}
	if req.SentAt != "" {
		sentAt, err := time.Parse(time.RFC3339, req.SentAt)
		if err != nil {
			return util.NewValidationError("sent_at must be RFC 3339", map[string]any{"sent_at": req.SentAt})
		}
		comm.SentAt = sentAt
	}

	if err := h.comms.Create(c.UserContext(), comm); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ToCommunicationResponse(*comm)})
}
