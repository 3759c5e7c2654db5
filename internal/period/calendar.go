package period

import (
	"strings"
	"time"
)

// Clock is the single source of wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }

// Calendar resolves month windows in a fixed location.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

// NewCalendar builds a calendar. A nil clock means SystemClock and a nil
// location means UTC.
func NewCalendar(clock Clock, loc *time.Location) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{clock: clock, loc: loc}
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the calendar's location.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// Current returns the window for the current month.
func (c *Calendar) Current() Window {
	now := c.Now()
	return ForMonth(now.Year(), now.Month(), c.loc)
}

// Window returns the window for m.
func (c *Calendar) Window(m Month) Window {
	return ForMonth(m.Year, m.Month, c.loc)
}

// ResolveMonth turns an optional YYYY-MM token into a window. Blank or
// malformed tokens fall back to the current month.
func (c *Calendar) ResolveMonth(token string) Window {
	token = strings.TrimSpace(token)
	if token == "" {
		return c.Current()
	}
	m, err := ParseMonthToken(token)
	if err != nil {
		return c.Current()
	}
	return c.Window(m)
}
