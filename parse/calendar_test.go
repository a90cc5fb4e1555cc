package parse

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendar(t *testing.T) {
	buf := bytes.NewBufferString(
		`service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WEEK,1,1,1,1,1,0,0,20240101,20241231
WKND,0,0,0,0,0,1,1,20240301,20240930
`)

	calendars, minDate, maxDate, warnings, err := ParseCalendar(buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, calendars, 2)
	assert.Equal(t, "20240101", minDate)
	assert.Equal(t, "20241231", maxDate)

	week := calendars["WEEK"]
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		assert.NotZero(t, week.Weekday&(1<<d), d)
	}
	assert.Zero(t, week.Weekday&(1<<time.Saturday))
	assert.Zero(t, week.Weekday&(1<<time.Sunday))

	wknd := calendars["WKND"]
	assert.NotZero(t, wknd.Weekday&(1<<time.Saturday))
	assert.NotZero(t, wknd.Weekday&(1<<time.Sunday))
	assert.Zero(t, wknd.Weekday&(1<<time.Monday))
}

func TestParseCalendarSkipsInvalidRows(t *testing.T) {
	buf := bytes.NewBufferString(
		`service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WEEK,1,1,1,1,1,0,0,20240101,20241231
,1,1,1,1,1,0,0,20240101,20241231
BAD1,2,0,0,0,0,0,0,20240101,20241231
BAD2,1,0,0,0,0,0,0,2024-01-01,20241231
BAD3,1,0,0,0,0,0,0,20240101,20240230
BAD4,1,0,0,0,0,0,0,20241231,20240101
`)

	calendars, minDate, maxDate, warnings, err := ParseCalendar(buf)
	require.NoError(t, err)
	assert.Len(t, warnings, 5)
	require.Len(t, calendars, 1)
	assert.Contains(t, calendars, "WEEK")

	// Skipped rows don't contribute to the date range.
	assert.Equal(t, "20240101", minDate)
	assert.Equal(t, "20241231", maxDate)
}

func TestParseCalendarLastRowWins(t *testing.T) {
	buf := bytes.NewBufferString(
		`service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WEEK,1,1,1,1,1,0,0,20240101,20241231
WEEK,0,0,0,0,0,1,1,20240601,20240630
`)

	calendars, _, _, warnings, err := ParseCalendar(buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, calendars, 1)
	assert.Equal(t, "20240601", calendars["WEEK"].StartDate)
	assert.NotZero(t, calendars["WEEK"].Weekday&(1<<time.Saturday))
	assert.Zero(t, calendars["WEEK"].Weekday&(1<<time.Monday))
}

func TestParseCalendarEmpty(t *testing.T) {
	buf := bytes.NewBufferString(
		`service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
`)

	calendars, minDate, maxDate, warnings, err := ParseCalendar(buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, calendars)
	assert.Equal(t, "", minDate)
	assert.Equal(t, "", maxDate)
}
