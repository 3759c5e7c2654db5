package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/calllog-service/internal/api/http/handlers"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Admin     *handlers.AdminHandler
	Sessions  *auth.SessionManager
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	app.Use(cfg.Sessions.Handle)

	app.Get("/", cfg.Auth.LoginPage)
	app.Get(auth.LoginPath, cfg.Auth.LoginPage)
	app.Post(auth.LoginPath, cfg.Auth.Login)
	app.Get("/logout", cfg.Auth.Logout)
	app.Post("/logout", cfg.Auth.Logout)

	dashboard := app.Group(auth.DashboardPath, auth.RequireAuthenticated())
	dashboard.Get("", cfg.Dashboard.Show)
	dashboard.Post("", cfg.Dashboard.LogCall)

	app.Get("/admin/stop-impersonation", cfg.Admin.StopImpersonation)

	admin := app.Group("/admin", auth.RequireAdminSession())
	admin.Get("/dashboard", cfg.Admin.Overview)
	admin.Get("/dashboard/employee/:id", cfg.Admin.EmployeeDetail)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.AddUser)
	admin.Post("/users/add", cfg.Admin.AddUser)
	admin.Post("/users/:id/delete", cfg.Admin.DeleteUser)
	admin.Get("/settings", cfg.Admin.Settings)
	admin.Post("/settings", cfg.Admin.UpdateSettings)
	admin.Get("/impersonate/:id", cfg.Admin.Impersonate)
	admin.Get("/logs", cfg.Admin.Logs)
}
