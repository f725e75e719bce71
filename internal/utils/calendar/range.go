package calendar

import (
	"fmt"
	"time"
)

// Range is a closed instant interval [Start, End]. Civil day ranges end at
// 23:59:59.999 of their last day. A range whose ends coincide is empty.
type Range struct {
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether the range covers no instant.
func (r Range) IsEmpty() bool {
	return !r.Start.Before(r.End)
}

// Contains reports whether t lies in [Start, End].
func (r Range) Contains(t time.Time) bool {
	return !r.IsEmpty() && !t.Before(r.Start) && !t.After(r.End)
}

// Clip intersects r with other. The result may be empty.
func (r Range) Clip(other Range) Range {
	out := r
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out
}

// CivilSpan returns the first and last civil dates touched by r.
func (c *Calendar) CivilSpan(r Range) (string, string) {
	return c.CivilDate(r.Start), c.CivilDate(r.End)
}

// ContainsDay reports whether the civil date day is touched by r.
func (c *Calendar) ContainsDay(r Range, day string) bool {
	if r.IsEmpty() {
		return false
	}
	first, last := c.CivilSpan(r)
	return day >= first && day <= last
}

// DaysRange returns the range of whole civil days from the day of from up to
// and including the day of to.
func (c *Calendar) DaysRange(from, to time.Time) Range {
	start := c.StartOfDay(from)
	return Range{Start: start, End: c.EndOfDay(to)}
}

// LastDays returns the range covering n civil days ending with the day of now.
func (c *Calendar) LastDays(now time.Time, n int) (Range, error) {
	if n < 1 {
		return Range{}, fmt.Errorf("days must be at least 1, got %d", n)
	}
	l := now.In(c.loc)
	first := time.Date(l.Year(), l.Month(), l.Day()-(n-1), 0, 0, 0, 0, c.loc)
	return Range{Start: first, End: c.EndOfDay(now)}, nil
}

// ParseCivilRange parses YYYY-MM-DD bounds into a range covering both days.
func (c *Calendar) ParseCivilRange(from, to string) (Range, error) {
	start, err := c.ParseCivilDate(from)
	if err != nil {
		return Range{}, err
	}
	endDay, err := c.ParseCivilDate(to)
	if err != nil {
		return Range{}, err
	}
	if endDay.Before(start) {
		return Range{}, fmt.Errorf("range end %s is before start %s", to, from)
	}
	return Range{Start: start, End: c.EndOfDay(endDay)}, nil
}
