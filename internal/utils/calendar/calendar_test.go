package calendar_test

import (
	"testing"
	"time"

	"github.com/giropositivo/giro_backend/internal/utils/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSaoPaulo(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.New("America/Sao_Paulo")
	require.NoError(t, err)
	return cal
}

func TestNew_InvalidZone(t *testing.T) {
	_, err := calendar.New("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestCivilDate_UsesConfiguredZone(t *testing.T) {
	cal := newSaoPaulo(t)

	// 01:30 UTC is still the previous evening in Sao Paulo (UTC-3).
	instant := time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", cal.CivilDate(instant))

	utc := calendar.NewWithLocation(time.UTC)
	assert.Equal(t, "2024-03-10", utc.CivilDate(instant))
}

func TestDayBounds(t *testing.T) {
	cal := newSaoPaulo(t)

	start, end := cal.DayBounds(time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 9, 3, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 3, 10, 2, 59, 59, 999_000_000, time.UTC), end.UTC())
	assert.Equal(t, int64(1439), calendar.MinutesBetween(end, start), "the day closes at 23:59:59.999")
	assert.True(t, end.Equal(cal.EndOfDay(start)))
	assert.True(t, end.Add(time.Millisecond).Equal(cal.NextDay(start)))

	s, e, err := cal.DayBoundsOf("2024-03-09")
	require.NoError(t, err)
	assert.True(t, s.Equal(start))
	assert.True(t, e.Equal(end))

	_, _, err = cal.DayBoundsOf("09/03/2024")
	assert.Error(t, err)
}

func TestDaysInMonth(t *testing.T) {
	cal := newSaoPaulo(t)
	tests := []struct {
		date string
		want int
	}{
		{"2023-02-10", 28},
		{"2024-02-10", 29},
		{"2024-04-30", 30},
		{"2024-12-31", 31},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := cal.ParseCivilDate(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cal.DaysInMonth(d))
		})
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	cal := newSaoPaulo(t)
	loc := cal.Location()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, loc)

	assert.Equal(t, 7, cal.CalendarDaysBetween(start.AddDate(0, 0, 7), start))
	assert.Equal(t, 7, cal.CalendarDaysBetween(start.AddDate(0, 0, 7).Add(-time.Minute), start))
	assert.Equal(t, 1, cal.CalendarDaysBetween(time.Date(2024, 3, 2, 0, 5, 0, 0, loc), time.Date(2024, 3, 1, 23, 55, 0, 0, loc)))
	assert.Equal(t, 0, cal.CalendarDaysBetween(start, start))
	assert.Equal(t, -7, cal.CalendarDaysBetween(start, start.AddDate(0, 0, 7)))
}

func TestMinutesBetweenTruncates(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(10080), calendar.MinutesBetween(start.AddDate(0, 0, 7), start))
	assert.Equal(t, int64(1), calendar.MinutesBetween(start.Add(119*time.Second), start))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 0m", calendar.FormatDuration(0))
	assert.Equal(t, "2h 5m", calendar.FormatDuration(125))
	assert.Equal(t, "0h 0m", calendar.FormatDuration(-3))
}
