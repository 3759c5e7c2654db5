package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/money"
	"github.com/spec-kit/calllog-service/internal/observability"
	"github.com/spec-kit/calllog-service/internal/period"
	"github.com/spec-kit/calllog-service/internal/repository"
	"github.com/spec-kit/calllog-service/internal/stats"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

const (
	// NoCallsYet is shown in place of a last-call time for idle employees.
	NoCallsYet = "No calls yet"

	lastCallLayout = "2006-01-02 15:04"
	chartPrecision = 2

	msgSelectEmployee = "Select an employee to view from the admin dashboard."
	msgLoginRequired  = "Please log in to continue."
)

// DashboardService answers "what does this viewer see".
type DashboardService struct {
	publisher
	store     repository.Store
	calendar  *period.Calendar
	formatter money.Formatter
	metrics   *observability.Metrics
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	Store      repository.Store
	Calendar   *period.Calendar
	Formatter  money.Formatter
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	calendar := deps.Calendar
	if calendar == nil {
		calendar = period.NewCalendar(nil, nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		publisher: publisher{dispatcher: deps.Dispatcher, logger: logger, now: calendar.Now},
		store:     deps.Store,
		calendar:  calendar,
		formatter: deps.Formatter,
		metrics:   deps.Metrics,
	}
}

// EmployeeView is what an employee (or an admin viewing as one) sees.
type EmployeeView struct {
	Employee   domain.Employee
	Calls      []domain.Call
	CallDates  []string
	DateFilter string
}

// EmployeeRollup is one row of the admin overview table.
type EmployeeRollup struct {
	ID       int64
	Name     string
	Tally    stats.Tally
	LastCall string
}

// AdminOverview is the full aggregate bundle for one calendar month.
type AdminOverview struct {
	MonthLabel     string
	MonthToken     string
	PrevMonth      string
	NextMonth      string
	TotalEmployees int

	AllTime stats.Tally
	Month   stats.Tally

	MonthTotalValue        float64
	MonthTotalValueDisplay string

	Employees       []EmployeeRollup
	CallVolumeChart stats.ChartSeries[int]
	ValueChart      stats.ChartSeries[float64]
}

// EmployeeDetail is the all-time record of a single employee.
type EmployeeDetail struct {
	Employee domain.Employee
	Calls    []domain.Call
	Tally    stats.Tally
}

// LogCallInput carries the fields of a new call.
type LogCallInput struct {
	PersonName    string
	PersonNumber  string
	Answered      bool
	Outcome       string
	PropertyValue string
}

// DashboardSubject returns the employee whose dashboard viewer may open.
// Anonymous viewers are sent to the login page and an admin without an
// impersonation target is sent back to the admin dashboard.
func (s *DashboardService) DashboardSubject(viewer auth.ViewerState) (int64, error) {
	if id, ok := viewer.DashboardEmployee(); ok {
		return id, nil
	}
	if viewer.Kind == auth.ViewerAdmin {
		return 0, apperrors.NewRedirect(auth.AdminDashboardPath, msgSelectEmployee)
	}
	return 0, apperrors.NewRedirect(auth.LoginPath, msgLoginRequired)
}

// EmployeeView lists an employee's calls, optionally limited to one
// YYYY-MM-DD date, with the dates that have any call.
func (s *DashboardService) EmployeeView(ctx context.Context, employeeID int64, dateFilter string) (*EmployeeView, error) {
	employee, err := s.store.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, employeeNotFound(err, employeeID)
	}

	calls, err := s.store.ListCallsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	view := &EmployeeView{
		Employee:   *employee,
		Calls:      calls,
		CallDates:  stats.DistinctCallDates(calls, s.calendar.Location()),
		DateFilter: strings.TrimSpace(dateFilter),
	}
	if view.DateFilter != "" {
		view.Calls = stats.FilterByDateExact(calls, view.DateFilter, s.calendar.Location())
	}
	return view, nil
}

// AdminOverview builds the fleet report for the month named by monthToken,
// or the current month when the token is blank or malformed.
func (s *DashboardService) AdminOverview(ctx context.Context, monthToken string) (*AdminOverview, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveReport("admin_overview", time.Since(start)) }()

	window := s.calendar.ResolveMonth(monthToken)

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	calls, err := s.store.ListCalls(ctx, repository.CallFilter{})
	if err != nil {
		return nil, err
	}
	monthCalls := stats.FilterByMonthWindow(calls, window)

	answeredOnly := stats.SumOptions{OnlyAnswered: true}
	valueByEmployee := stats.MonetarySumByEmployee(monthCalls, answeredOnly)
	monthTotal := stats.TotalMonetary(monthCalls, answeredOnly)

	overview := &AdminOverview{
		MonthLabel:             window.Label(),
		MonthToken:             window.Token(),
		PrevMonth:              period.Previous(window.Start).Token(),
		NextMonth:              period.Next(window.End).Token(),
		TotalEmployees:         len(employees),
		AllTime:                stats.TallyCalls(calls),
		Month:                  stats.TallyCalls(monthCalls),
		MonthTotalValue:        monthTotal,
		MonthTotalValueDisplay: s.formatter.Format(&monthTotal),
		CallVolumeChart:        stats.BuildChartSeries(stats.CountsByEmployee(monthCalls), employees),
		ValueChart:             stats.BuildChartSeries(stats.RoundValues(valueByEmployee, chartPrecision), employees),
	}

	tallies := stats.TalliesByEmployee(calls)
	overview.Employees = make([]EmployeeRollup, 0, len(employees))
	for _, emp := range stats.SortedByName(employees) {
		row := EmployeeRollup{
			ID:       emp.ID,
			Name:     emp.Name,
			Tally:    tallies[emp.ID],
			LastCall: NoCallsYet,
		}
		if last, ok := stats.LastCallTimestamp(calls, emp.ID); ok {
			row.LastCall = last.In(s.calendar.Location()).Format(lastCallLayout)
		}
		overview.Employees = append(overview.Employees, row)
	}
	return overview, nil
}

// EmployeeDetail returns every call of one employee with its answered split.
func (s *DashboardService) EmployeeDetail(ctx context.Context, employeeID int64) (*EmployeeDetail, error) {
	employee, err := s.store.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, employeeNotFound(err, employeeID)
	}
	calls, err := s.store.ListCallsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &EmployeeDetail{
		Employee: *employee,
		Calls:    calls,
		Tally:    stats.TallyCalls(calls),
	}, nil
}

// LogCall records a call for the viewer's dashboard employee. An admin
// viewing as an employee logs on that employee's behalf.
func (s *DashboardService) LogCall(ctx context.Context, viewer auth.ViewerState, input LogCallInput) (*domain.Call, error) {
	employeeID, err := s.DashboardSubject(viewer)
	if err != nil {
		return nil, err
	}

	call := &domain.Call{
		EmployeeID:   employeeID,
		PersonName:   strings.TrimSpace(input.PersonName),
		PersonNumber: strings.TrimSpace(input.PersonNumber),
		Answered:     input.Answered,
		Outcome:      strings.TrimSpace(input.Outcome),
		CreatedAt:    s.calendar.Now().UTC(),
	}
	if value := strings.TrimSpace(input.PropertyValue); value != "" {
		call.PropertyValue = &value
	}

	missing := map[string]any{}
	if call.PersonName == "" {
		missing["person_name"] = "required"
	}
	if call.PersonNumber == "" {
		missing["person_number"] = "required"
	}
	if call.Outcome == "" {
		missing["outcome"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Person name, number and outcome are required.", missing)
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.FindEmployeeByID(ctx, employeeID); err != nil {
			return employeeNotFound(err, employeeID)
		}
		return tx.InsertCall(ctx, call)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCallLogged(call.Answered)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCallLogged,
		EmployeeID: int64Ptr(employeeID),
		Actor:      viewerActor(viewer),
		Payload: events.CallLoggedPayload{
			CallID:        call.ID,
			Answered:      call.Answered,
			HasValue:      call.PropertyValue != nil,
			Impersonating: viewer.Kind == auth.ViewerAdminImpersonating,
		},
	})
	return call, nil
}
