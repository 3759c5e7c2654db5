// Package period computes calendar-month reporting windows.
package period

import (
	"fmt"
	"time"
)

// monthTokenLayout accepts the month with or without a leading zero.
const monthTokenLayout = "2006-1"

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// Token renders the month as YYYY-MM.
func (m Month) Token() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Window is a half-open [Start, End) interval covering one calendar month.
type Window struct {
	Start time.Time
	End   time.Time
}

// ForMonth returns the window for year/month in loc. End is the first
// instant of the following month.
func ForMonth(year int, month time.Month, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Month returns the month the window covers.
func (w Window) Month() Month {
	return Month{Year: w.Start.Year(), Month: w.Start.Month()}
}

// Token renders the window's month as YYYY-MM.
func (w Window) Token() string {
	return w.Month().Token()
}

// Label renders the window's month as e.g. "March 2024".
func (w Window) Label() string {
	return w.Start.Format("January 2006")
}

// Previous returns the month immediately before the window starting at start.
func Previous(start time.Time) Month {
	prev := start.AddDate(0, 0, -1)
	return Month{Year: prev.Year(), Month: prev.Month()}
}

// Next returns the month that begins at end.
func Next(end time.Time) Month {
	return Month{Year: end.Year(), Month: end.Month()}
}

// ParseMonthToken parses a YYYY-MM token. 2024-3 reads the same as 2024-03.
func ParseMonthToken(text string) (Month, error) {
	t, err := time.Parse(monthTokenLayout, text)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month token %q: %w", text, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}
