package tablica_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablica.dev/tablica/model"
	"tablica.dev/tablica/testutil"
)

func weekdayScheduleFixture() map[string][]string {
	return map[string][]string{
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"week,1,1,1,1,1,0,0,20240101,20241231",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,trip_headsign",
			"T1,7,week,Centrum",
		},
		"stop_times.txt": {
			"trip_id,stop_id,departure_time",
			"T1,S1,08:00:00",
		},
	}
}

func TestWeekScheduleWindow(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", weekdayScheduleFixture())

	// Monday morning before the departure: Mon through Fri of the
	// rolling window qualify, Sat and Sun do not.
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, tz)
	events := snapshot.WeekSchedule("7", "S1", now)

	require.Len(t, events, 5)
	for i, event := range events {
		assert.Equal(t, model.ScheduleEvent{
			RouteID:  "7",
			Headsign: "Centrum",
			Start:    time.Date(2024, 6, 10+i, 8, 0, 0, 0, tz),
			End:      time.Date(2024, 6, 10+i, 8, 1, 0, 0, tz),
			StopName: "Główna",
			StopCode: "01",
			StopLat:  54.4641,
			StopLon:  17.0285,
		}, event)
	}
}

func TestWeekScheduleDropsPastEvents(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", weekdayScheduleFixture())

	// Monday's event ended 08:01; at 09:00 the window starts with
	// Tuesday.
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, tz)
	events := snapshot.WeekSchedule("7", "S1", now)

	require.Len(t, events, 4)
	assert.Equal(t, time.Date(2024, 6, 11, 8, 0, 0, 0, tz), events[0].Start)

	// Right at the event's end instant it still counts.
	now = time.Date(2024, 6, 10, 8, 1, 0, 0, tz)
	events = snapshot.WeekSchedule("7", "S1", now)
	require.Len(t, events, 5)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 0, 0, 0, tz), events[0].Start)
}

func TestWeekScheduleSortedAcrossTrips(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", map[string][]string{
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"daily,1,1,1,1,1,1,1,20240101,20241231",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,trip_headsign",
			"T2,7,daily,Dworzec",
			"T1,7,daily,Centrum",
		},
		"stop_times.txt": {
			"trip_id,stop_id,departure_time",
			"T2,S1,09:30:00",
			"T1,S1,08:15:00",
		},
	})

	now := time.Date(2024, 6, 10, 7, 0, 0, 0, tz)
	events := snapshot.WeekSchedule("7", "S1", now)

	require.Len(t, events, 14)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Start.Before(events[i-1].Start))
	}
	assert.Equal(t, "Centrum", events[0].Headsign)
	assert.Equal(t, "Dworzec", events[1].Headsign)
}

func TestWeekScheduleInactiveService(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", map[string][]string{
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"ended,1,1,1,1,1,1,1,20200101,20230101",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,trip_headsign",
			"T1,7,ended,Centrum",
		},
		"stop_times.txt": {
			"trip_id,stop_id,departure_time",
			"T1,S1,08:00:00",
		},
	})

	// No active service anywhere in the window: empty, not an error.
	events := snapshot.WeekSchedule("7", "S1", time.Date(2024, 6, 10, 7, 0, 0, 0, tz))
	assert.Empty(t, events)
}

func TestWeekScheduleUnknownStopOrRoute(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", map[string][]string{})
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, tz)

	assert.Empty(t, snapshot.WeekSchedule("7", "nope", now))
	assert.Empty(t, snapshot.WeekSchedule("nope", "S1", now))
}

func TestQueriesAreIdempotent(t *testing.T) {
	tz := warsaw(t)

	snapshot := testutil.BuildSnapshot(t, "Europe/Warsaw", weekdayScheduleFixture())
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, tz)

	assert.Equal(t,
		snapshot.NextDepartures("S1", now),
		snapshot.NextDepartures("S1", now),
	)
	assert.Equal(t,
		snapshot.WeekSchedule("7", "S1", now),
		snapshot.WeekSchedule("7", "S1", now),
	)
}
