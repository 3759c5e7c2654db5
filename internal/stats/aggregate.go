// Package stats reduces call rows into per-employee and fleet statistics.
// Every function is pure and safe to call on an empty slice.
package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/money"
	"github.com/spec-kit/calllog-service/internal/period"
)

const (
	dateLayout = "2006-01-02"
	// dateFilterLayout also accepts unpadded month and day, e.g. 2024-3-5.
	dateFilterLayout = "2006-1-2"
)

// Tally holds a total and the answered share of it. The unanswered count is
// always derived from the two.
type Tally struct {
	Total    int
	Answered int
}

// Unanswered returns Total-Answered, never below zero.
func (t Tally) Unanswered() int {
	if t.Answered > t.Total {
		return 0
	}
	return t.Total - t.Answered
}

// TallyCalls counts calls and answered calls in one pass.
func TallyCalls(calls []domain.Call) Tally {
	var t Tally
	for _, c := range calls {
		t.Total++
		if c.Answered {
			t.Answered++
		}
	}
	return t
}

// CountsByEmployee maps employee id to its number of calls.
func CountsByEmployee(calls []domain.Call) map[int64]int {
	out := make(map[int64]int)
	for _, c := range calls {
		out[c.EmployeeID]++
	}
	return out
}

// AnsweredCountsByEmployee maps employee id to its number of answered calls.
// Employees with no answered calls are absent.
func AnsweredCountsByEmployee(calls []domain.Call) map[int64]int {
	out := make(map[int64]int)
	for _, c := range calls {
		if c.Answered {
			out[c.EmployeeID]++
		}
	}
	return out
}

// TalliesByEmployee combines CountsByEmployee and AnsweredCountsByEmployee.
func TalliesByEmployee(calls []domain.Call) map[int64]Tally {
	totals := CountsByEmployee(calls)
	answered := AnsweredCountsByEmployee(calls)
	out := make(map[int64]Tally, len(totals))
	for id, total := range totals {
		out[id] = Tally{Total: total, Answered: answered[id]}
	}
	return out
}

// LastCallTimestamp returns the latest call time for employeeID.
func LastCallTimestamp(calls []domain.Call, employeeID int64) (time.Time, bool) {
	var (
		last  time.Time
		found bool
	)
	for _, c := range calls {
		if c.EmployeeID != employeeID {
			continue
		}
		if !found || c.CreatedAt.After(last) {
			last = c.CreatedAt
			found = true
		}
	}
	return last, found
}

// SumOptions narrows which calls contribute to a monetary sum.
type SumOptions struct {
	OnlyAnswered bool
}

// MonetarySumByEmployee parses each qualifying call's property value and sums
// it per employee. Calls that parse to zero are skipped and employees whose
// sum is zero are left out. A sum that overflows stays at the float64 limit.
func MonetarySumByEmployee(calls []domain.Call, opts SumOptions) map[int64]float64 {
	out := make(map[int64]float64)
	for _, c := range calls {
		if opts.OnlyAnswered && !c.Answered {
			continue
		}
		amount := money.ParseAmount(c.PropertyValue)
		if amount == 0 {
			continue
		}
		out[c.EmployeeID] = clampFinite(out[c.EmployeeID] + amount)
	}
	for id, sum := range out {
		if sum == 0 {
			delete(out, id)
		}
	}
	return out
}

// TotalMonetary sums MonetarySumByEmployee across employees in id order so
// the float result does not depend on map iteration.
func TotalMonetary(calls []domain.Call, opts SumOptions) float64 {
	return SumValues(MonetarySumByEmployee(calls, opts))
}

// SumValues adds the mapping's values in ascending key order, clamping an
// overflowing total to the float64 limit.
func SumValues(values map[int64]float64) float64 {
	ids := make([]int64, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var total float64
	for _, id := range ids {
		total = clampFinite(total + values[id])
	}
	return total
}

// Number is the value type a chart series can carry.
type Number interface {
	~int | ~int64 | ~float64
}

// ChartSeries is a pair of index-aligned label and value slices.
type ChartSeries[V Number] struct {
	Labels []string `json:"labels"`
	Values []V      `json:"values"`
}

// Len returns the number of points.
func (s ChartSeries[V]) Len() int {
	return len(s.Labels)
}

// BuildChartSeries walks employees by name and emits one point per employee
// whose value is nonzero.
func BuildChartSeries[V Number](values map[int64]V, employees []domain.Employee) ChartSeries[V] {
	series := ChartSeries[V]{Labels: []string{}, Values: []V{}}
	for _, emp := range SortedByName(employees) {
		v, ok := values[emp.ID]
		if !ok || v == 0 {
			continue
		}
		series.Labels = append(series.Labels, emp.Name)
		series.Values = append(series.Values, v)
	}
	return series
}

// SortedByName returns a name-ordered copy of employees. Ties keep their
// input order.
func SortedByName(employees []domain.Employee) []domain.Employee {
	sorted := make([]domain.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// RoundTo rounds v to the given number of decimal places. Values too large
// to scale are returned unchanged.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	scaled := v * scale
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / scale
}

// clampFinite pins an overflowing sum to the largest finite float64 of the
// same sign.
func clampFinite(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// RoundValues rounds every value of the mapping to places decimals.
func RoundValues(values map[int64]float64, places int) map[int64]float64 {
	out := make(map[int64]float64, len(values))
	for id, v := range values {
		out[id] = RoundTo(v, places)
	}
	return out
}

// FilterByDateExact keeps calls whose calendar date in loc equals date
// (YYYY-MM-DD, leading zeros optional), newest first. A date that does not
// parse matches nothing.
func FilterByDateExact(calls []domain.Call, date string, loc *time.Location) []domain.Call {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(dateFilterLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return []domain.Call{}
	}
	next := day.AddDate(0, 0, 1)

	out := make([]domain.Call, 0)
	for _, c := range calls {
		ts := c.CreatedAt.In(loc)
		if !ts.Before(day) && ts.Before(next) {
			out = append(out, c)
		}
	}
	SortNewestFirst(out)
	return out
}

// FilterByMonthWindow keeps calls with w.Start <= CreatedAt < w.End.
func FilterByMonthWindow(calls []domain.Call, w period.Window) []domain.Call {
	out := make([]domain.Call, 0)
	for _, c := range calls {
		if w.Contains(c.CreatedAt) {
			out = append(out, c)
		}
	}
	return out
}

// SortNewestFirst orders calls by descending timestamp, then descending id.
func SortNewestFirst(calls []domain.Call) {
	sort.SliceStable(calls, func(i, j int) bool {
		if calls[i].CreatedAt.Equal(calls[j].CreatedAt) {
			return calls[i].ID > calls[j].ID
		}
		return calls[i].CreatedAt.After(calls[j].CreatedAt)
	})
}

// DistinctCallDates lists the YYYY-MM-DD dates in loc on which any call was
// made, ascending and without duplicates.
func DistinctCallDates(calls []domain.Call, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, c := range calls {
		d := c.CreatedAt.In(loc).Format(dateLayout)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// LastLoginByEmployee maps numeric employee id to the latest login time.
// Events whose employee id is not a number are ignored.
func LastLoginByEmployee(events []domain.LoginEvent) map[int64]time.Time {
	out := make(map[int64]time.Time)
	for _, ev := range events {
		id, err := strconv.ParseInt(strings.TrimSpace(ev.EmployeeID), 10, 64)
		if err != nil {
			continue
		}
		if last, ok := out[id]; !ok || ev.CreatedAt.After(last) {
			out[id] = ev.CreatedAt
		}
	}
	return out
}
