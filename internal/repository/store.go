package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("repository: conflict")
)

// CallFilter narrows ListCalls. Zero values mean "no restriction"; the
// window is half-open [From, To).
type CallFilter struct {
	EmployeeID   *int64
	AnsweredOnly bool
	From         *time.Time
	To           *time.Time
}

// EmployeeRepository persists employee accounts.
type EmployeeRepository interface {
	InsertEmployee(ctx context.Context, employee *domain.Employee) error
	FindEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindEmployeeByName(ctx context.Context, name string) (*domain.Employee, error)
	EmployeeNameTaken(ctx context.Context, name string) (bool, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// CallRepository persists logged calls.
type CallRepository interface {
	InsertCall(ctx context.Context, call *domain.Call) error
	ListCallsForEmployee(ctx context.Context, employeeID int64) ([]domain.Call, error)
	ListCalls(ctx context.Context, filter CallFilter) ([]domain.Call, error)
	DeleteCallsForEmployee(ctx context.Context, employeeID int64) (int64, error)
}

// LoginEventRepository persists the employee login log.
type LoginEventRepository interface {
	InsertLoginEvent(ctx context.Context, event *domain.LoginEvent) error
	ListLoginEvents(ctx context.Context) ([]domain.LoginEvent, error)
	DeleteLoginEventsForEmployee(ctx context.Context, employeeID int64) (int64, error)
}

// SettingRepository persists key/value settings.
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

// Store is the single persistence boundary used by the services. Call lists
// are returned newest first; employees are returned ordered by name.
type Store interface {
	EmployeeRepository
	CallRepository
	LoginEventRepository
	SettingRepository

	// WithinTx runs fn against a transactional view of the store. The
	// changes made through that view are committed only if fn returns nil.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

func stampNow(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at
}
