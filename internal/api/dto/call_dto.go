package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/service"
)

// LogCallRequest is the call logging form. Answered takes "yes" for an
// answered call, matching the checkbox value of the form.
type LogCallRequest struct {
	PersonName    string `json:"person_name" form:"person_name"`
	PersonNumber  string `json:"person_number" form:"person_number"`
	Answered      string `json:"answered" form:"answered"`
	Outcome       string `json:"outcome" form:"outcome"`
	PropertyValue string `json:"property_value" form:"property_value"`
}

// ToInput converts the request to the service input.
func (r LogCallRequest) ToInput() service.LogCallInput {
	return service.LogCallInput{
		PersonName:    r.PersonName,
		PersonNumber:  r.PersonNumber,
		Answered:      isYes(r.Answered),
		Outcome:       r.Outcome,
		PropertyValue: r.PropertyValue,
	}
}

func isYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "on", "1":
		return true
	default:
		return false
	}
}

// CallResponse is one call as shown to clients.
type CallResponse struct {
	ID            int64     `json:"id"`
	EmployeeID    int64     `json:"employee_id"`
	PersonName    string    `json:"person_name"`
	PersonNumber  string    `json:"person_number"`
	Answered      bool      `json:"answered"`
	Outcome       string    `json:"outcome"`
	PropertyValue *string   `json:"property_value"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromCall maps a domain call.
func FromCall(call domain.Call) CallResponse {
	return CallResponse{
		ID:            call.ID,
		EmployeeID:    call.EmployeeID,
		PersonName:    call.PersonName,
		PersonNumber:  call.PersonNumber,
		Answered:      call.Answered,
		Outcome:       call.Outcome,
		PropertyValue: call.PropertyValue,
		CreatedAt:     call.CreatedAt,
	}
}

// FromCalls maps a list of calls, never returning nil.
func FromCalls(calls []domain.Call) []CallResponse {
	out := make([]CallResponse, 0, len(calls))
	for _, call := range calls {
		out = append(out, FromCall(call))
	}
	return out
}

// EmployeeViewResponse is the body of GET /dashboard.
type EmployeeViewResponse struct {
	Employee        EmployeeResponse  `json:"employee"`
	Calls           []CallResponse    `json:"calls"`
	CallDates       []string          `json:"call_dates"`
	DateFilter      string            `json:"date_filter,omitempty"`
	IsAdmin         bool              `json:"is_admin"`
	ViewingEmployee *EmployeeResponse `json:"viewing_employee,omitempty"`
}

// FromEmployeeView maps the dashboard view. viewingAs is set when an admin
// is looking at the employee's dashboard.
func FromEmployeeView(view *service.EmployeeView, viewingAs bool) EmployeeViewResponse {
	employee := FromEmployee(view.Employee)
	resp := EmployeeViewResponse{
		Employee:   employee,
		Calls:      FromCalls(view.Calls),
		CallDates:  view.CallDates,
		DateFilter: view.DateFilter,
		IsAdmin:    viewingAs,
	}
	if viewingAs {
		resp.ViewingEmployee = &employee
	}
	return resp
}
