package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/calllog-service/internal/api/dto"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/service"
)

// AuthHandler exposes the login page, login and logout.
type AuthHandler struct {
	auth     *service.AuthService
	settings *service.SettingsService
	sessions *auth.SessionManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, settings *service.SettingsService, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{auth: authService, settings: settings, sessions: sessions}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	message, err := h.settings.LoginMessage(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.LoginPageResponse{
			LoginMessage:  message,
			Authenticated: auth.SessionFromContext(c).Authenticated,
		},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.auth.Login(c.UserContext(), req.EmployeeName, req.Password)
	if err != nil {
		return err
	}
	if err := h.sessions.Issue(c, session); err != nil {
		return err
	}

	resp := dto.LoginResponse{ExpiresAt: session.ExpiresAt}
	message := "You were successfully logged in"
	if session.IsAdmin {
		resp.Role = string(domain.RoleAdmin)
		resp.Redirect = auth.AdminDashboardPath
		message = "Welcome, Admin"
	} else {
		resp.Role = string(domain.RoleEmployee)
		resp.EmployeeID = session.EmployeeID
		resp.Redirect = auth.DashboardPath
	}
	return c.JSON(fiber.Map{"data": resp, "message": message})
}

// Logout handles GET and POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), auth.SessionFromContext(c)); err != nil {
		return err
	}
	h.sessions.ExpireCookie(c)
	return c.JSON(fiber.Map{"message": "You were logged out", "redirect": auth.LoginPath})
}
