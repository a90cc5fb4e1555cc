package model

import (
	"strconv"
	"time"
)

// Holds all external facing types and constants.

// Kind of a calendar_dates.txt exception.
type ExceptionType int8

const (
	ExceptionAdded   ExceptionType = 1
	ExceptionRemoved ExceptionType = 2
)

type Stop struct {
	ID   string
	Name string
	Code string
	Lat  float64
	Lon  float64
}

type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	Headsign  string
}

// A single departure record from stop_times.txt. Departure is
// normalized "HHMMSS". Hours above 23 mark post-midnight
// continuations of the service day.
type StopTime struct {
	TripID    string
	StopID    string
	Departure string
}

func (st *StopTime) DepartureTime() time.Duration {
	h, _ := strconv.Atoi(st.Departure[0:2])
	m, _ := strconv.Atoi(st.Departure[2:4])
	s, _ := strconv.Atoi(st.Departure[4:6])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// Base weekly calendar row for a service. Weekday is a bitmask with
// 1<<time.Weekday set for each operating weekday.
type Calendar struct {
	ServiceID string
	StartDate string
	EndDate   string
	Weekday   int8
}

// Per-date override of the base calendar for a service.
type CalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType ExceptionType
}

// A vehicle departing from a stop.
type Departure struct {
	RouteID   string
	Headsign  string
	ServiceID string
	Departure string
	Time      time.Time
}

// One departure of a route from a stop in a weekly schedule, with the
// stop's display data attached.
type ScheduleEvent struct {
	RouteID  string
	Headsign string
	Start    time.Time
	End      time.Time
	StopName string
	StopCode string
	StopLat  float64
	StopLon  float64
}

// Display data for a stop, as returned by stop listings.
type StopInfo struct {
	Name string
	Code string
}
