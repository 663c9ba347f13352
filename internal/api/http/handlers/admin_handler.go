package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/dto"
	"github.com/eshaafi/appointment-service/internal/observability"
	"github.com/eshaafi/appointment-service/internal/service"
)

// AdminHandler exposes the platform admin read surface.
type AdminHandler struct {
	admin   *service.AdminService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{admin: admin, metrics: metrics}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.Context())
	if err != nil {
		return err
	}
	requests, errCounts := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"users":                stats.Users,
		"doctors":              stats.Doctors,
		"clinics":              stats.Clinics,
		"appointments":         stats.Appointments,
		"pending_applications": stats.PendingApplications,
		"traffic": fiber.Map{
			"requests": requests,
			"errors":   errCounts,
		},
	}})
}

// Applications handles GET /api/admin/applications.
func (h *AdminHandler) Applications(c *fiber.Ctx) error {
	apps, err := h.admin.PendingApplications(c.Context(), queryIntDefault(c, "limit", 50))
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationResponse(&apps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
