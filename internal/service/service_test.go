package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/config"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/money"
	"github.com/spec-kit/calllog-service/internal/observability"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/repository"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

var fixedNow = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx        context.Context
	store      *repository.MemoryStore
	sessions   *auth.MemorySessionStore
	dispatcher events.Dispatcher
	published  []events.Event

	dashboard *DashboardService
	employees *EmployeeService
	auth      *AuthService
	settings  *SettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:        context.Background(),
		store:      repository.NewMemoryStore(),
		sessions:   auth.NewMemorySessionStore(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	for _, eventType := range events.AllEventTypes {
		f.dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}

	calendar := period.NewCalendar(period.FixedClock{At: fixedNow}, time.UTC)
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	f.dashboard = NewDashboardService(DashboardDependencies{
		Store:      f.store,
		Calendar:   calendar,
		Formatter:  money.NewFormatter("R"),
		Dispatcher: f.dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	f.employees = NewEmployeeService(EmployeeDependencies{
		Store:      f.store,
		Calendar:   calendar,
		Dispatcher: f.dispatcher,
		Logger:     logger,
		BcryptCost: bcrypt.MinCost,
	})
	f.auth = NewAuthService(config.AuthConfig{
		SessionTTLMinutes: 60,
		AdminName:         "admin",
		AdminPassword:     "2025",
	}, AuthDependencies{
		Store:      f.store,
		Sessions:   f.sessions,
		Calendar:   calendar,
		Dispatcher: f.dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	f.settings = NewSettingsService(f.store, f.dispatcher, logger)
	return f
}

func (f *fixture) addEmployee(t *testing.T, name string) *domain.Employee {
	t.Helper()
	employee, err := f.employees.Add(f.ctx, name, "secret")
	require.NoError(t, err)
	return employee
}

func (f *fixture) seedCall(t *testing.T, employeeID int64, answered bool, value string, at time.Time) {
	t.Helper()
	call := &domain.Call{
		EmployeeID:   employeeID,
		PersonName:   "Caller",
		PersonNumber: "0821234567",
		Answered:     answered,
		Outcome:      "Interested",
		CreatedAt:    at,
	}
	if value != "" {
		call.PropertyValue = &value
	}
	require.NoError(t, f.store.InsertCall(f.ctx, call))
}

func (f *fixture) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.Type)
	}
	return out
}

func adminSession() *auth.Session {
	return auth.NewAdminSession("sid", fixedNow, time.Hour)
}

func redirectTarget(t *testing.T, err error) string {
	t.Helper()
	require.True(t, apperrors.IsCode(err, "REDIRECT"), "expected redirect, got %v", err)
	return apperrors.ToDomainError(err).Location
}
