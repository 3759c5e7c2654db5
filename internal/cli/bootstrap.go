package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/config"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/money"
	"github.com/spec-kit/calllog-service/internal/observability"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/persistence"
	"github.com/spec-kit/calllog-service/internal/repository"
	"github.com/spec-kit/calllog-service/internal/service"
	"github.com/spec-kit/calllog-service/internal/worker"
)

// runtime holds everything the commands share.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
	pg         *persistence.Postgres
	redis      *persistence.Redis
	store      repository.Store
	sessions   auth.SessionStore
	calendar   *period.Calendar
	formatter  money.Formatter
	dispatcher events.Dispatcher
}

// bootstrap loads configuration and opens the backing stores. Without
// POSTGRES_DSN the calls live in memory; without REDIS_ADDR so do sessions.
func bootstrap(ctx context.Context, logLevel string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, err
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	rt := &runtime{
		cfg:        cfg,
		logger:     logger,
		metrics:    observability.NewMetrics(),
		pg:         pg,
		redis:      persistence.NewRedis(ctx, cfg.Redis, logger),
		calendar:   period.NewCalendar(period.SystemClock{}, loc),
		formatter:  money.NewFormatter(cfg.Report.CurrencyPrefix),
		dispatcher: events.NewInMemoryDispatcher(),
	}

	if pg.Configured() {
		rt.store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		rt.store = repository.NewMemoryStore()
	}
	if rt.redis.Configured() {
		rt.sessions = auth.NewRedisSessionStore(rt.redis.Client)
	} else {
		rt.sessions = auth.NewMemorySessionStore()
	}

	worker.StartAuditWorker(service.NewAuditService(rt.dispatcher, logger))
	return rt, nil
}

func (rt *runtime) migrate(ctx context.Context) error {
	return persistence.RunMigrations(ctx, rt.pg.PoolHandle(), rt.cfg.Postgres.MigrationsDir, rt.logger)
}

func (rt *runtime) dashboardService() *service.DashboardService {
	return service.NewDashboardService(service.DashboardDependencies{
		Store:      rt.store,
		Calendar:   rt.calendar,
		Formatter:  rt.formatter,
		Dispatcher: rt.dispatcher,
		Metrics:    rt.metrics,
		Logger:     rt.logger,
	})
}

func (rt *runtime) close() {
	rt.redis.Close()
	rt.pg.Close()
	_ = rt.logger.Sync()
}
