package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/repository"
	"github.com/spec-kit/calllog-service/internal/stats"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

const (
	msgNameAndPasswordRequired = "Name and password are required to add a user."
	msgNameTaken               = "An employee with that name already exists."
	msgAdminRequired           = "Admin access required"
)

// EmployeeService manages employee accounts and admin impersonation.
type EmployeeService struct {
	publisher
	store      repository.Store
	calendar   *period.Calendar
	bcryptCost int
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	Store      repository.Store
	Calendar   *period.Calendar
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// EmployeeSummary is one row of the user management list.
type EmployeeSummary struct {
	Employee  domain.Employee
	CallTotal int
	LastLogin *time.Time
}

// NewEmployeeService builds the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	calendar := deps.Calendar
	if calendar == nil {
		calendar = period.NewCalendar(nil, nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		publisher:  publisher{dispatcher: deps.Dispatcher, logger: logger, now: calendar.Now},
		store:      deps.Store,
		calendar:   calendar,
		bcryptCost: deps.BcryptCost,
	}
}

// Add creates an employee. Names are unique regardless of case.
func (s *EmployeeService) Add(ctx context.Context, name, password string) (*domain.Employee, error) {
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return nil, apperrors.NewValidationError(msgNameAndPasswordRequired, nil)
	}

	taken, err := s.store.EmployeeNameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError(msgNameTaken, map[string]any{"name": name})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{Name: name, PasswordHash: hash, CreatedAt: s.calendar.Now().UTC()}
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.InsertEmployee(ctx, employee)
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperrors.NewValidationError(msgNameTaken, map[string]any{"name": name})
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventEmployeeCreated,
		EmployeeID: int64Ptr(employee.ID),
		Actor:      events.Actor{Role: domain.RoleAdmin},
		Payload:    events.EmployeeChangedPayload{Name: employee.Name},
	})
	return employee, nil
}

// List returns every employee by name with call totals and last login.
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeSummary, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	calls, err := s.store.ListCalls(ctx, repository.CallFilter{})
	if err != nil {
		return nil, err
	}
	logins, err := s.store.ListLoginEvents(ctx)
	if err != nil {
		return nil, err
	}

	totals := stats.CountsByEmployee(calls)
	lastLogin := stats.LastLoginByEmployee(logins)

	out := make([]EmployeeSummary, 0, len(employees))
	for _, emp := range stats.SortedByName(employees) {
		row := EmployeeSummary{Employee: emp, CallTotal: totals[emp.ID]}
		if ts, ok := lastLogin[emp.ID]; ok {
			ts := ts
			row.LastLogin = &ts
		}
		out = append(out, row)
	}
	return out, nil
}

// Delete removes an employee with all its calls and login events in one
// transaction. An impersonation of that employee held by session ends.
func (s *EmployeeService) Delete(ctx context.Context, session *auth.Session, id int64) (*domain.Employee, error) {
	var (
		employee     *domain.Employee
		callsRemoved int64
		logsRemoved  int64
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		employee, err = tx.FindEmployeeByID(ctx, id)
		if err != nil {
			return employeeNotFound(err, id)
		}
		if callsRemoved, err = tx.DeleteCallsForEmployee(ctx, id); err != nil {
			return err
		}
		if logsRemoved, err = tx.DeleteLoginEventsForEmployee(ctx, id); err != nil {
			return err
		}
		return tx.DeleteEmployee(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if session != nil && session.ImpersonatedEmployeeID != nil && *session.ImpersonatedEmployeeID == id {
		auth.EndImpersonation(session)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventEmployeeDeleted,
		EmployeeID: int64Ptr(id),
		Actor:      sessionActor(session),
		Payload: events.EmployeeChangedPayload{
			Name:         employee.Name,
			CallsRemoved: callsRemoved,
			LogsRemoved:  logsRemoved,
		},
	})
	return employee, nil
}

// Impersonate points an admin session at an existing employee.
func (s *EmployeeService) Impersonate(ctx context.Context, session *auth.Session, id int64) (*domain.Employee, error) {
	if !auth.RequireAdmin(session) {
		return nil, apperrors.NewRedirect(auth.LoginPath, msgAdminRequired)
	}
	employee, err := s.store.FindEmployeeByID(ctx, id)
	if err != nil {
		return nil, employeeNotFound(err, id)
	}
	if err := auth.BeginImpersonation(session, employee.ID); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventImpersonationStarted,
		EmployeeID: int64Ptr(employee.ID),
		Actor:      events.Actor{Role: domain.RoleAdmin},
		Payload:    events.EmployeeChangedPayload{Name: employee.Name},
	})
	return employee, nil
}

// StopImpersonation ends an admin's impersonation. Other sessions are left
// untouched.
func (s *EmployeeService) StopImpersonation(ctx context.Context, session *auth.Session) {
	if session == nil || !session.IsAdmin || session.ImpersonatedEmployeeID == nil {
		return
	}
	target := *session.ImpersonatedEmployeeID
	auth.EndImpersonation(session)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventImpersonationStopped,
		EmployeeID: int64Ptr(target),
		Actor:      events.Actor{Role: domain.RoleAdmin},
	})
}

// LoginEvents returns the raw employee login log, oldest first.
func (s *EmployeeService) LoginEvents(ctx context.Context) ([]domain.LoginEvent, error) {
	return s.store.ListLoginEvents(ctx)
}
