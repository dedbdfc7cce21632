package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvely/ticket-tracker/internal/api/dto"
	"github.com/resolvely/ticket-tracker/internal/service"
)

// DashboardHandler serves aggregates and catalog listings.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Overview GET /api/dashboard.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OverviewResponse{
		Stats:         dto.NewStatsResponse(overview.Stats),
		Distribution:  dto.NewDistributionResponse(overview.Distribution),
		RecentTickets: dto.NewTicketSummaries(overview.Recent),
	}})
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	result, err := h.service.Stats(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(result)})
}

// Distribution GET /api/dashboard/distribution.
func (h *DashboardHandler) Distribution(c *fiber.Ctx) error {
	result, err := h.service.Distribution(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDistributionResponse(result)})
}

// Analytics GET /api/dashboard/analytics.
func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	series, err := h.service.Analytics(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsResponse(series)})
}

// Activity GET /api/dashboard/activity.
func (h *DashboardHandler) Activity(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	events, err := h.service.ActivityLog(c.UserContext(), caller(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityEvents(events)})
}

// Statuses GET /api/catalog/statuses.
func (h *DashboardHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := h.service.Statuses(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponses(statuses)})
}

// Priorities GET /api/catalog/priorities.
func (h *DashboardHandler) Priorities(c *fiber.Ctx) error {
	priorities, err := h.service.Priorities(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPriorityResponses(priorities)})
}

// Users GET /api/users.
func (h *DashboardHandler) Users(c *fiber.Ctx) error {
	users, err := h.service.Users(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}
