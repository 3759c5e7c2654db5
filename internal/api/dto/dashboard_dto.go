package dto

import (
	"github.com/spec-kit/calllog-service/internal/service"
	"github.com/spec-kit/calllog-service/internal/stats"
)

// EmployeeRollupResponse is one row of the admin overview table.
type EmployeeRollupResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalCalls  int    `json:"total_calls"`
	AnsweredYes int    `json:"answered_yes"`
	AnsweredNo  int    `json:"answered_no"`
	LastCall    string `json:"last_call"`
}

// AdminOverviewResponse is the body of GET /admin/dashboard.
type AdminOverviewResponse struct {
	Employees              []EmployeeRollupResponse   `json:"employees"`
	TotalCalls             int                        `json:"total_calls"`
	YesCount               int                        `json:"yes_count"`
	NoCount                int                        `json:"no_count"`
	TotalEmployees         int                        `json:"total_employees"`
	MonthLabel             string                     `json:"month_label"`
	MonthParam             string                     `json:"month_param"`
	MonthYes               int                        `json:"month_yes"`
	MonthNo                int                        `json:"month_no"`
	MonthTotalCalls        int                        `json:"month_total_calls"`
	MonthTotalValue        float64                    `json:"month_total_value"`
	MonthTotalValueDisplay string                     `json:"month_total_value_display"`
	MonthlyAgentChart      stats.ChartSeries[int]     `json:"monthly_agent_chart"`
	MonthlyValueChart      stats.ChartSeries[float64] `json:"monthly_value_chart"`
	PrevMonthParam         string                     `json:"prev_month_param"`
	NextMonthParam         string                     `json:"next_month_param"`
}

// FromAdminOverview maps the overview bundle.
func FromAdminOverview(o *service.AdminOverview) AdminOverviewResponse {
	rows := make([]EmployeeRollupResponse, 0, len(o.Employees))
	for _, row := range o.Employees {
		rows = append(rows, EmployeeRollupResponse{
			ID:          row.ID,
			Name:        row.Name,
			TotalCalls:  row.Tally.Total,
			AnsweredYes: row.Tally.Answered,
			AnsweredNo:  row.Tally.Unanswered(),
			LastCall:    row.LastCall,
		})
	}
	return AdminOverviewResponse{
		Employees:              rows,
		TotalCalls:             o.AllTime.Total,
		YesCount:               o.AllTime.Answered,
		NoCount:                o.AllTime.Unanswered(),
		TotalEmployees:         o.TotalEmployees,
		MonthLabel:             o.MonthLabel,
		MonthParam:             o.MonthToken,
		MonthYes:               o.Month.Answered,
		MonthNo:                o.Month.Unanswered(),
		MonthTotalCalls:        o.Month.Total,
		MonthTotalValue:        o.MonthTotalValue,
		MonthTotalValueDisplay: o.MonthTotalValueDisplay,
		MonthlyAgentChart:      o.CallVolumeChart,
		MonthlyValueChart:      o.ValueChart,
		PrevMonthParam:         o.PrevMonth,
		NextMonthParam:         o.NextMonth,
	}
}

// EmployeeDetailResponse is the body of GET /admin/dashboard/employee/:id.
type EmployeeDetailResponse struct {
	Employee   EmployeeResponse `json:"employee"`
	Calls      []CallResponse   `json:"calls"`
	YesCount   int              `json:"yes_count"`
	NoCount    int              `json:"no_count"`
	TotalCalls int              `json:"total_calls"`
}

// FromEmployeeDetail maps the single employee record.
func FromEmployeeDetail(d *service.EmployeeDetail) EmployeeDetailResponse {
	return EmployeeDetailResponse{
		Employee:   FromEmployee(d.Employee),
		Calls:      FromCalls(d.Calls),
		YesCount:   d.Tally.Answered,
		NoCount:    d.Tally.Unanswered(),
		TotalCalls: d.Tally.Total,
	}
}
