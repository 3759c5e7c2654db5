package auth

import (
	"errors"
	"time"
)

// ErrNotAdmin is returned when an admin-only session transition is
// attempted from a non-admin session.
var ErrNotAdmin = errors.New("admin session required")

// Session is the per-browser login state. It lives in the session store,
// never in the relational database.
type Session struct {
	ID                     string    `json:"id"`
	Authenticated          bool      `json:"authenticated"`
	IsAdmin                bool      `json:"is_admin"`
	EmployeeID             *int64    `json:"employee_id,omitempty"`
	ImpersonatedEmployeeID *int64    `json:"impersonated_employee_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	ExpiresAt              time.Time `json:"expires_at"`
}

// NewAdminSession returns an authenticated admin session with no target.
func NewAdminSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:            id,
		Authenticated: true,
		IsAdmin:       true,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
}

// NewEmployeeSession returns an authenticated session for employeeID.
func NewEmployeeSession(id string, employeeID int64, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:            id,
		Authenticated: true,
		EmployeeID:    &employeeID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// RequireAdmin reports whether the session belongs to a logged-in admin.
func RequireAdmin(s *Session) bool {
	return s != nil && s.Authenticated && s.IsAdmin
}

// BeginImpersonation points an admin session at employeeID. Whether the
// employee exists is the caller's concern.
func BeginImpersonation(s *Session, employeeID int64) error {
	if !RequireAdmin(s) {
		return ErrNotAdmin
	}
	target := employeeID
	s.ImpersonatedEmployeeID = &target
	return nil
}

// EndImpersonation clears the impersonation target of an admin session.
func EndImpersonation(s *Session) {
	if s == nil || !s.IsAdmin {
		return
	}
	s.ImpersonatedEmployeeID = nil
}

// ClearSession drops every identity and impersonation field at once.
func ClearSession(s *Session) {
	if s == nil {
		return
	}
	*s = Session{ID: s.ID}
}
