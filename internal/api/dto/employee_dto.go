package dto

import (
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/service"
)

// AddEmployeeRequest creates an employee.
type AddEmployeeRequest struct {
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

// EmployeeResponse never carries the credential.
type EmployeeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FromEmployee maps a domain employee.
func FromEmployee(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt}
}

// EmployeeSummaryResponse is one row of the user management list.
type EmployeeSummaryResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CallTotal int        `json:"call_total"`
	LastLogin *time.Time `json:"last_login"`
}

// FromEmployeeSummaries maps the user management list.
func FromEmployeeSummaries(rows []service.EmployeeSummary) []EmployeeSummaryResponse {
	out := make([]EmployeeSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, EmployeeSummaryResponse{
			ID:        row.Employee.ID,
			Name:      row.Employee.Name,
			CallTotal: row.CallTotal,
			LastLogin: row.LastLogin,
		})
	}
	return out
}

// LoginEventResponse is one entry of the login log.
type LoginEventResponse struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// FromLoginEvents maps the login log.
func FromLoginEvents(events []domain.LoginEvent) []LoginEventResponse {
	out := make([]LoginEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, LoginEventResponse{ID: ev.ID, EmployeeID: ev.EmployeeID, Timestamp: ev.CreatedAt})
	}
	return out
}
