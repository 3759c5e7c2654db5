package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/calllog-service/internal/api/dto"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/service"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

// AdminHandler serves the admin dashboard and account management.
type AdminHandler struct {
	dashboard *service.DashboardService
	employees *service.EmployeeService
	settings  *service.SettingsService
	sessions  *auth.SessionManager
}

// AdminDependencies bundles services for the admin handler.
type AdminDependencies struct {
	Dashboard *service.DashboardService
	Employees *service.EmployeeService
	Settings  *service.SettingsService
	Sessions  *auth.SessionManager
}

// NewAdminHandler constructs handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{
		dashboard: deps.Dashboard,
		employees: deps.Employees,
		settings:  deps.Settings,
		sessions:  deps.Sessions,
	}
}

// Overview handles GET /admin/dashboard?month=YYYY-MM.
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboard.AdminOverview(c.UserContext(), c.Query("month"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAdminOverview(overview)})
}

// EmployeeDetail handles GET /admin/dashboard/employee/:id.
func (h *AdminHandler) EmployeeDetail(c *fiber.Ctx) error {
	id, err := employeeIDParam(c)
	if err != nil {
		return err
	}
	detail, err := h.dashboard.EmployeeDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEmployeeDetail(detail)})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	rows, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEmployeeSummaries(rows)})
}

// AddUser handles POST /admin/users.
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	var req dto.AddEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	employee, err := h.employees.Add(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    dto.FromEmployee(*employee),
		"message": fmt.Sprintf("Employee %q added successfully.", employee.Name),
	})
}

// DeleteUser handles POST /admin/users/:id/delete.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := employeeIDParam(c)
	if err != nil {
		return err
	}
	session := auth.SessionFromContext(c)
	employee, err := h.employees.Delete(c.UserContext(), session, id)
	if err != nil {
		return err
	}
	if err := h.sessions.Save(c, session); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.FromEmployee(*employee),
		"message": fmt.Sprintf("Employee %q deleted.", employee.Name),
	})
}

// Settings handles GET /admin/settings.
func (h *AdminHandler) Settings(c *fiber.Ctx) error {
	message, err := h.settings.LoginMessage(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettingsResponse{LoginMessage: message}})
}

// UpdateSettings handles POST /admin/settings.
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	message, err := h.settings.UpdateLoginMessage(c.UserContext(), req.LoginMessage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.SettingsResponse{LoginMessage: message},
		"message": "General settings updated.",
	})
}

// Impersonate handles GET /admin/impersonate/:id.
func (h *AdminHandler) Impersonate(c *fiber.Ctx) error {
	id, err := employeeIDParam(c)
	if err != nil {
		return err
	}
	session := auth.SessionFromContext(c)
	employee, err := h.employees.Impersonate(c.UserContext(), session, id)
	if err != nil {
		return err
	}
	if err := h.sessions.Save(c, session); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.FromEmployee(*employee),
		"message":  fmt.Sprintf("Viewing dashboard as %s", employee.Name),
		"redirect": auth.DashboardPath,
	})
}

// StopImpersonation handles GET /admin/stop-impersonation. Only admin
// sessions are changed; every caller is pointed at the admin dashboard.
func (h *AdminHandler) StopImpersonation(c *fiber.Ctx) error {
	session := auth.SessionFromContext(c)
	if auth.RequireAdmin(session) {
		h.employees.StopImpersonation(c.UserContext(), session)
		if err := h.sessions.Save(c, session); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"redirect": auth.AdminDashboardPath})
}

// Logs handles GET /admin/logs.
func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	events, err := h.employees.LoginEvents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoginEvents(events)})
}

func employeeIDParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("employee", map[string]any{"id": c.Params("id")})
	}
	return int64(id), nil
}
