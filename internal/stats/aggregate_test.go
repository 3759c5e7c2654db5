package stats

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/period"
)

func value(s string) *string { return &s }

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func fixtureCalls() []domain.Call {
	return []domain.Call{
		{ID: 1, EmployeeID: 1, Answered: true, PropertyValue: value("R 2,500"), CreatedAt: at(2024, time.March, 3, 9)},
		{ID: 2, EmployeeID: 1, Answered: false, PropertyValue: value("R 9,000"), CreatedAt: at(2024, time.March, 3, 11)},
		{ID: 3, EmployeeID: 1, Answered: true, PropertyValue: nil, CreatedAt: at(2024, time.February, 28, 16)},
		{ID: 4, EmployeeID: 2, Answered: true, PropertyValue: value("1200500.50"), CreatedAt: at(2024, time.March, 15, 10)},
		{ID: 5, EmployeeID: 2, Answered: true, PropertyValue: value("n/a"), CreatedAt: at(2024, time.April, 1, 0)},
		{ID: 6, EmployeeID: 3, Answered: false, PropertyValue: value(""), CreatedAt: at(2024, time.March, 20, 8)},
	}
}

func fixtureEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: 2, Name: "Sipho"},
		{ID: 1, Name: "Jane"},
		{ID: 3, Name: "Anele"},
		{ID: 4, Name: "Zoe"},
	}
}

func TestCountsAndAnsweredStayConsistent(t *testing.T) {
	calls := fixtureCalls()
	totals := CountsByEmployee(calls)
	answered := AnsweredCountsByEmployee(calls)

	assert.Equal(t, map[int64]int{1: 3, 2: 2, 3: 1}, totals)
	assert.Equal(t, map[int64]int{1: 2, 2: 2}, answered)

	for id, tally := range TalliesByEmployee(calls) {
		assert.Equal(t, tally.Total, tally.Answered+tally.Unanswered(), "employee %d", id)
	}
	assert.Equal(t, 1, TalliesByEmployee(calls)[1].Unanswered())
	assert.Equal(t, 1, TalliesByEmployee(calls)[3].Unanswered())
}

func TestTallyCalls(t *testing.T) {
	tally := TallyCalls(fixtureCalls())
	assert.Equal(t, Tally{Total: 6, Answered: 4}, tally)
	assert.Equal(t, 2, tally.Unanswered())

	assert.Equal(t, Tally{}, TallyCalls(nil))
	assert.Equal(t, 0, Tally{Total: 1, Answered: 3}.Unanswered())
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, CountsByEmployee(nil))
	assert.Empty(t, AnsweredCountsByEmployee(nil))
	assert.Empty(t, MonetarySumByEmployee(nil, SumOptions{}))
	assert.Zero(t, TotalMonetary(nil, SumOptions{OnlyAnswered: true}))
	assert.Empty(t, FilterByMonthWindow(nil, period.ForMonth(2024, time.March, time.UTC)))
	assert.NotNil(t, FilterByDateExact(nil, "2024-03-01", time.UTC))
	assert.Empty(t, DistinctCallDates(nil, time.UTC))

	series := BuildChartSeries(map[int64]int{}, nil)
	assert.Equal(t, 0, series.Len())
	assert.NotNil(t, series.Labels)
	assert.NotNil(t, series.Values)
}

func TestLastCallTimestamp(t *testing.T) {
	calls := fixtureCalls()

	last, ok := LastCallTimestamp(calls, 1)
	require.True(t, ok)
	assert.Equal(t, at(2024, time.March, 3, 11), last)

	_, ok = LastCallTimestamp(calls, 4)
	assert.False(t, ok)
}

func TestMonetarySumByEmployee(t *testing.T) {
	calls := fixtureCalls()

	all := MonetarySumByEmployee(calls, SumOptions{})
	assert.Equal(t, map[int64]float64{1: 11500, 2: 1200500.5}, all)

	answered := MonetarySumByEmployee(calls, SumOptions{OnlyAnswered: true})
	assert.Equal(t, map[int64]float64{1: 2500, 2: 1200500.5}, answered)
	_, present := answered[3]
	assert.False(t, present, "zero contributions never create a key")
}

func TestMonetarySumDropsNetZeroEmployees(t *testing.T) {
	calls := []domain.Call{
		{EmployeeID: 7, PropertyValue: value("500")},
		{EmployeeID: 7, PropertyValue: value("-500")},
	}
	assert.Empty(t, MonetarySumByEmployee(calls, SumOptions{}))
}

func TestTotalMonetary(t *testing.T) {
	assert.InDelta(t, 1203000.5, TotalMonetary(fixtureCalls(), SumOptions{OnlyAnswered: true}), 1e-6)
	assert.InDelta(t, 1212000.5, TotalMonetary(fixtureCalls(), SumOptions{}), 1e-6)
}

func TestMonetarySumsStayFinite(t *testing.T) {
	huge := "15" + strings.Repeat("0", 307)
	calls := []domain.Call{
		{EmployeeID: 1, PropertyValue: value(huge)},
		{EmployeeID: 1, PropertyValue: value(huge)},
		{EmployeeID: 2, PropertyValue: value(huge)},
		{EmployeeID: 3, PropertyValue: value(strings.Repeat("9", 400))},
	}

	sums := MonetarySumByEmployee(calls, SumOptions{})
	assert.Equal(t, math.MaxFloat64, sums[1])
	assert.InDelta(t, 1.5e308, sums[2], 1e293)
	_, present := sums[3]
	assert.False(t, present, "unparsable magnitudes read as zero")

	total := TotalMonetary(calls, SumOptions{})
	assert.False(t, math.IsInf(total, 0))
	assert.Equal(t, math.MaxFloat64, total)
	assert.Equal(t, -math.MaxFloat64, SumValues(map[int64]float64{1: -math.MaxFloat64, 2: -math.MaxFloat64}))
}

func TestBuildChartSeries(t *testing.T) {
	employees := fixtureEmployees()

	counts := BuildChartSeries(CountsByEmployee(fixtureCalls()), employees)
	assert.Equal(t, []string{"Anele", "Jane", "Sipho"}, counts.Labels)
	assert.Equal(t, []int{1, 3, 2}, counts.Values)

	values := BuildChartSeries(map[int64]float64{1: 2500, 2: 0, 4: 10.25, 99: 5}, employees)
	assert.Equal(t, []string{"Jane", "Zoe"}, values.Labels)
	assert.Equal(t, []float64{2500, 10.25}, values.Values)

	for _, s := range []ChartSeries[float64]{values} {
		require.Equal(t, len(s.Labels), len(s.Values))
		for _, v := range s.Values {
			assert.NotZero(t, v)
		}
	}
}

func TestSortedByNameDoesNotMutateInput(t *testing.T) {
	employees := fixtureEmployees()
	sorted := SortedByName(employees)

	assert.Equal(t, "Anele", sorted[0].Name)
	assert.Equal(t, "Sipho", employees[0].Name)
}

func TestFilterByDateExact(t *testing.T) {
	calls := fixtureCalls()

	got := FilterByDateExact(calls, "2024-03-03", time.UTC)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID, "newest first")
	assert.Equal(t, int64(1), got[1].ID)

	assert.Empty(t, FilterByDateExact(calls, "2024-13-40", time.UTC))
	assert.Empty(t, FilterByDateExact(calls, "yesterday", time.UTC))
	assert.Empty(t, FilterByDateExact(calls, "2024-05-01", time.UTC))

	assert.Len(t, FilterByDateExact(calls, "2024-3-3", time.UTC), 2, "leading zeros are optional")
	assert.Len(t, FilterByDateExact(calls, "2024-03-3", time.UTC), 2)
	assert.Len(t, FilterByDateExact(calls, " 2024-3-15 ", time.UTC), 1)
}

func TestFilterByDateExactUsesLocation(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	calls := []domain.Call{{ID: 1, CreatedAt: time.Date(2024, time.March, 3, 23, 0, 0, 0, time.UTC)}}

	assert.Len(t, FilterByDateExact(calls, "2024-03-04", loc), 1)
	assert.Empty(t, FilterByDateExact(calls, "2024-03-03", loc))
}

func TestFilterByMonthWindow(t *testing.T) {
	march := period.ForMonth(2024, time.March, time.UTC)
	got := FilterByMonthWindow(fixtureCalls(), march)

	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 6}, ids)

	edge := []domain.Call{{ID: 9, CreatedAt: march.End}}
	assert.Empty(t, FilterByMonthWindow(edge, march), "a call at the end bound belongs to the next month")
}

func TestDistinctCallDates(t *testing.T) {
	assert.Equal(t,
		[]string{"2024-02-28", "2024-03-03", "2024-03-15", "2024-03-20", "2024-04-01"},
		DistinctCallDates(fixtureCalls(), time.UTC),
	)
}

func TestLastLoginByEmployee(t *testing.T) {
	events := []domain.LoginEvent{
		{EmployeeID: "1", CreatedAt: at(2024, time.March, 1, 8)},
		{EmployeeID: "1", CreatedAt: at(2024, time.March, 2, 8)},
		{EmployeeID: "2", CreatedAt: at(2024, time.January, 5, 8)},
		{EmployeeID: "bogus", CreatedAt: at(2024, time.March, 9, 8)},
	}

	got := LastLoginByEmployee(events)
	assert.Len(t, got, 2)
	assert.Equal(t, at(2024, time.March, 2, 8), got[1])
	assert.Equal(t, at(2024, time.January, 5, 8), got[2])
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1200500.51, RoundTo(1200500.505000001, 2))
	assert.Equal(t, math.MaxFloat64, RoundTo(math.MaxFloat64, 2))
	assert.Equal(t, map[int64]float64{1: 2.35}, RoundValues(map[int64]float64{1: 2.3456}, 2))
}
