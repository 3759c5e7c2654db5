package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/config"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/observability"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/repository"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

const (
	loginSuccess = "success"
	loginFailure = "failure"
)

// AuthService coordinates login and logout flows.
type AuthService struct {
	publisher
	store         repository.Store
	sessions      auth.SessionStore
	metrics       *observability.Metrics
	calendar      *period.Calendar
	adminName     string
	adminPassword string
	sessionTTL    time.Duration
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Store      repository.Store
	Sessions   auth.SessionStore
	Calendar   *period.Calendar
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	calendar := deps.Calendar
	if calendar == nil {
		calendar = period.NewCalendar(nil, nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		publisher:     publisher{dispatcher: deps.Dispatcher, logger: logger, now: calendar.Now},
		store:         deps.Store,
		sessions:      deps.Sessions,
		metrics:       deps.Metrics,
		calendar:      calendar,
		adminName:     cfg.AdminName,
		adminPassword: cfg.AdminPassword,
		sessionTTL:    ttl,
	}
}

// Login authenticates name/password and returns a fresh session. The admin
// account is recognised by name, case-insensitively; everyone else is
// looked up as an employee and gets a login event recorded.
func (s *AuthService) Login(ctx context.Context, name, password string) (*auth.Session, error) {
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return nil, apperrors.NewValidationError("Name and password are required.", nil)
	}

	now := s.calendar.Now()
	if strings.EqualFold(name, s.adminName) {
		if !auth.ConstantTimeEqual(password, s.adminPassword) {
			s.loginFailed(ctx, domain.RoleAdmin, name, "bad admin password")
			return nil, apperrors.NewUnauthorized("Invalid Admin Credentials")
		}
		session := auth.NewAdminSession(uuid.NewString(), now, s.sessionTTL)
		s.metrics.RecordLogin(string(domain.RoleAdmin), loginSuccess)
		s.publishEvent(ctx, events.Event{
			Type:    events.EventLoginSucceeded,
			Actor:   events.Actor{Role: domain.RoleAdmin},
			Payload: events.LoginPayload{Name: name},
		})
		return session, nil
	}

	employee, err := s.store.FindEmployeeByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.loginFailed(ctx, domain.RoleEmployee, name, "unknown employee")
			return nil, apperrors.NewUnauthorized("Invalid Credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		s.loginFailed(ctx, domain.RoleEmployee, name, "bad password")
		return nil, apperrors.NewUnauthorized("Invalid Credentials")
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.InsertLoginEvent(ctx, &domain.LoginEvent{
			EmployeeID: strconv.FormatInt(employee.ID, 10),
			CreatedAt:  now.UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	session := auth.NewEmployeeSession(uuid.NewString(), employee.ID, now, s.sessionTTL)
	s.metrics.RecordLogin(string(domain.RoleEmployee), loginSuccess)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventLoginSucceeded,
		EmployeeID: int64Ptr(employee.ID),
		Actor:      events.Actor{Role: domain.RoleEmployee, EmployeeID: int64Ptr(employee.ID)},
		Payload:    events.LoginPayload{Name: employee.Name},
	})
	return session, nil
}

// Logout clears every identity field of session and forgets it.
func (s *AuthService) Logout(ctx context.Context, session *auth.Session) error {
	if session == nil {
		return nil
	}
	actor := sessionActor(session)
	id := session.ID
	auth.ClearSession(session)

	if s.sessions != nil && id != "" {
		if err := s.sessions.Delete(ctx, id); err != nil {
			return err
		}
	}
	if actor.Role != "" {
		s.publishEvent(ctx, events.Event{Type: events.EventLoggedOut, Actor: actor})
	}
	return nil
}

func (s *AuthService) loginFailed(ctx context.Context, role domain.Role, name, reason string) {
	s.metrics.RecordLogin(string(role), loginFailure)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventLoginFailed,
		Actor:   events.Actor{Role: role},
		Payload: events.LoginPayload{Name: name, Reason: reason},
	})
}
