package events

import (
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCallLogged           EventType = "call_logged"
	EventEmployeeCreated      EventType = "employee_created"
	EventEmployeeDeleted      EventType = "employee_deleted"
	EventLoginSucceeded       EventType = "login_succeeded"
	EventLoginFailed          EventType = "login_failed"
	EventLoggedOut            EventType = "logged_out"
	EventImpersonationStarted EventType = "impersonation_started"
	EventImpersonationStopped EventType = "impersonation_stopped"
	EventSettingUpdated       EventType = "setting_updated"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventCallLogged,
	EventEmployeeCreated,
	EventEmployeeDeleted,
	EventLoginSucceeded,
	EventLoginFailed,
	EventLoggedOut,
	EventImpersonationStarted,
	EventImpersonationStopped,
	EventSettingUpdated,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role       domain.Role `json:"role,omitempty"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CallLoggedPayload payload.
type CallLoggedPayload struct {
	CallID        int64 `json:"call_id"`
	Answered      bool  `json:"answered"`
	HasValue      bool  `json:"has_value"`
	Impersonating bool  `json:"impersonating"`
}

// EmployeeChangedPayload payload.
type EmployeeChangedPayload struct {
	Name         string `json:"name"`
	CallsRemoved int64  `json:"calls_removed,omitempty"`
	LogsRemoved  int64  `json:"logs_removed,omitempty"`
}

// LoginPayload payload.
type LoginPayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// SettingUpdatedPayload payload.
type SettingUpdatedPayload struct {
	Key string `json:"key"`
}
