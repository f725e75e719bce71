// Package calendar converts instants to civil dates in a single configured
// timezone and produces the day and month boundaries every cost and report
// computation relies on.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used across the API and storage.
const DateLayout = "2006-01-02"

// DefaultZone is the civil zone used when none is configured.
const DefaultZone = "America/Sao_Paulo"

// Calendar is immutable and safe for concurrent use.
type Calendar struct {
	loc *time.Location
}

// New loads zone and returns a calendar bound to it.
func New(zone string) (*Calendar, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", zone, err)
	}
	return &Calendar{loc: loc}, nil
}

// NewWithLocation wraps an already loaded location.
func NewWithLocation(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the civil zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// In converts t to the civil zone.
func (c *Calendar) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// CivilDate returns the YYYY-MM-DD date of t in the civil zone.
func (c *Calendar) CivilDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// ParseCivilDate parses a YYYY-MM-DD string as local midnight of that day.
func (c *Calendar) ParseCivilDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid civil date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay returns local midnight of the day containing t.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc)
}

// lastInstant is the resolution of the closing bound of a civil day.
const lastInstant = time.Millisecond

// DayBounds returns the first and last instants of the civil day containing t,
// 00:00:00.000 and 23:59:59.999 local. Both bounds belong to the day.
func (c *Calendar) DayBounds(t time.Time) (time.Time, time.Time) {
	return c.StartOfDay(t), c.EndOfDay(t)
}

// DayBoundsOf is DayBounds for a YYYY-MM-DD string.
func (c *Calendar) DayBoundsOf(date string) (time.Time, time.Time, error) {
	day, err := c.ParseCivilDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end := c.DayBounds(day)
	return start, end, nil
}

// EndOfDay returns 23:59:59.999 local of the day containing t.
func (c *Calendar) EndOfDay(t time.Time) time.Time {
	return c.NextDay(t).Add(-lastInstant)
}

// NextDay returns local midnight of the day after the one containing t.
func (c *Calendar) NextDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day()+1, 0, 0, 0, 0, c.loc)
}

// DaysInMonth returns the number of days of the civil month containing t.
func (c *Calendar) DaysInMonth(t time.Time) int {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month()+1, 0, 0, 0, 0, 0, c.loc).Day()
}

// CalendarDaysBetween returns the number of civil date changes from start to
// end, ignoring the time of day.
func (c *Calendar) CalendarDaysBetween(end, start time.Time) int {
	return civilOrdinal(end.In(c.loc)) - civilOrdinal(start.In(c.loc))
}

// MinutesBetween returns the whole minutes from start to end, truncated
// toward zero.
func MinutesBetween(end, start time.Time) int64 {
	return int64(end.Sub(start) / time.Minute)
}

// FormatDuration renders minutes as "Xh Ym".
func FormatDuration(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func civilOrdinal(t time.Time) int {
	// Days since the Unix epoch for the wall clock date, independent of offsets.
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}

