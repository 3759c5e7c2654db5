package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/calllog-service/internal/api/http"
	"github.com/spec-kit/calllog-service/internal/api/http/handlers"
	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := bootstrap(ctx, "")
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	if rt.cfg.Postgres.RunMigrations && rt.pg.Configured() {
		if err := rt.migrate(ctx); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	dashboard := rt.dashboardService()
	employees := service.NewEmployeeService(service.EmployeeDependencies{
		Store:      rt.store,
		Calendar:   rt.calendar,
		Dispatcher: rt.dispatcher,
		Logger:     logger,
		BcryptCost: rt.cfg.Auth.BcryptCost,
	})
	authService := service.NewAuthService(rt.cfg.Auth, service.AuthDependencies{
		Store:      rt.store,
		Sessions:   rt.sessions,
		Calendar:   rt.calendar,
		Dispatcher: rt.dispatcher,
		Metrics:    rt.metrics,
		Logger:     logger,
	})
	settings := service.NewSettingsService(rt.store, rt.dispatcher, logger)

	tokens := auth.NewTokenManager(rt.cfg.Auth.SessionSecret, rt.cfg.Auth.SessionTTLMinutes)
	sessions := auth.NewSessionManager(tokens, rt.sessions, logger, rt.cfg.Auth.SecureCookie)

	deps := map[string]handlers.Pinger{"store": rt.store, "postgres": nil, "redis": nil}
	if rt.pg.Configured() {
		deps["postgres"] = rt.pg
	}
	if rt.redis.Configured() {
		deps["redis"] = rt.redis
	}

	app := fiber.New(fiber.Config{AppName: rt.cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, rt.metrics, rt.cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(rt.cfg.App.Name, rt.cfg.App.Version, deps),
		Auth:      handlers.NewAuthHandler(authService, settings, sessions),
		Dashboard: handlers.NewDashboardHandler(dashboard),
		Admin: handlers.NewAdminHandler(handlers.AdminDependencies{
			Dashboard: dashboard,
			Employees: employees,
			Settings:  settings,
			Sessions:  sessions,
		}),
		Sessions: sessions,
		Metrics:  rt.metrics,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", rt.cfg.App.Addr()))
		listenErr <- app.Listen(rt.cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
		return nil
	}

	return app.ShutdownWithTimeout(shutdownTimeout)
}
