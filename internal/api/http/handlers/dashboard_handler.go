package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/calllog-service/internal/api/dto"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/service"
)

// DashboardHandler serves the employee dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Show handles GET /dashboard?date=YYYY-MM-DD.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	viewer := auth.ViewerFromContext(c)
	employeeID, err := h.dashboard.DashboardSubject(viewer)
	if err != nil {
		return err
	}

	view, err := h.dashboard.EmployeeView(c.UserContext(), employeeID, c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEmployeeView(view, viewer.IsAdmin())})
}

// LogCall handles POST /dashboard.
func (h *DashboardHandler) LogCall(c *fiber.Ctx) error {
	var req dto.LogCallRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	call, err := h.dashboard.LogCall(c.UserContext(), auth.ViewerFromContext(c), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    dto.FromCall(*call),
		"message": "Call logged successfully!",
	})
}
