package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/service"
)

// DashboardHandler exposes program-level aggregates.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Funnel handles GET /api/dashboard/funnel.
func (h *DashboardHandler) Funnel(c *fiber.Ctx) error {
	funnel, err := h.dashboard.Funnel(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": funnel})
}

// Activity handles GET /api/dashboard/activity.
func (h *DashboardHandler) Activity(c *fiber.Ctx) error {
	feed, err := h.dashboard.Activity(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}

// Alerts handles GET /api/dashboard/alerts.
func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.dashboard.AlertsOverview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": alerts})
}
