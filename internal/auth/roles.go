package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

// Entry points that authorization failures redirect to.
const (
	LoginPath          = "/login"
	AdminDashboardPath = "/admin/dashboard"
	DashboardPath      = "/dashboard"
)

// RequireAdminSession sends non-admins back to the login page.
func RequireAdminSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !RequireAdmin(SessionFromContext(c)) {
			return apperrors.NewRedirect(LoginPath, "Admin access required")
		}
		return c.Next()
	}
}

// RequireAuthenticated sends anonymous callers to the login page.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ViewerFromContext(c).Kind == ViewerUnauthenticated {
			return apperrors.NewRedirect(LoginPath, "Please log in to continue.")
		}
		return c.Next()
	}
}
