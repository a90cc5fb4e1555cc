package tablica

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"tablica.dev/tablica/model"
	"tablica.dev/tablica/parse"
)

// An immutable view of one loaded feed. All indexes are built once at
// construction; queries never mutate a snapshot, so it is safe to
// share between goroutines.
type Snapshot struct {
	ID       string
	Hash     string
	LoadedAt time.Time

	location *time.Location

	stops         map[string]*model.Stop
	trips         map[string]*model.Trip
	calendars     map[string]*model.Calendar
	calendarDates map[string][]*model.CalendarDate

	stopTimesByStop map[string][]*model.StopTime
	stopTimesByTrip map[string][]*model.StopTime
	tripsByRoute    map[string][]*model.Trip

	warnings []string
}

func NewSnapshot(feed *parse.Feed, location *time.Location, hash string) *Snapshot {
	s := &Snapshot{
		ID:       uuid.NewString(),
		Hash:     hash,
		LoadedAt: time.Now().UTC(),

		location: location,

		stops:         feed.Stops,
		trips:         feed.Trips,
		calendars:     feed.Calendars,
		calendarDates: feed.CalendarDates,

		stopTimesByStop: map[string][]*model.StopTime{},
		stopTimesByTrip: map[string][]*model.StopTime{},
		tripsByRoute:    map[string][]*model.Trip{},

		warnings: feed.Warnings,
	}

	// Stop times keep file order within each index.
	for _, st := range feed.StopTimes {
		s.stopTimesByStop[st.StopID] = append(s.stopTimesByStop[st.StopID], st)
		s.stopTimesByTrip[st.TripID] = append(s.stopTimesByTrip[st.TripID], st)
	}

	for _, trip := range feed.Trips {
		s.tripsByRoute[trip.RouteID] = append(s.tripsByRoute[trip.RouteID], trip)
	}
	// feed.Trips is a map, so order the route index by trip ID to
	// keep schedule generation deterministic across loads.
	for _, trips := range s.tripsByRoute {
		sort.Slice(trips, func(i, j int) bool {
			return trips[i].ID < trips[j].ID
		})
	}

	return s
}

func (s *Snapshot) Location() *time.Location {
	return s.location
}

// One entry per row skipped during the load.
func (s *Snapshot) Warnings() []string {
	return s.warnings
}

// Returns display data for every stop in the feed.
func (s *Snapshot) ListStops() map[string]model.StopInfo {
	stops := map[string]model.StopInfo{}
	for id, stop := range s.stops {
		stops[id] = model.StopInfo{Name: stop.Name, Code: stop.Code}
	}
	return stops
}

// Reports whether a service operates on the given day.
//
// Exceptions from calendar_dates.txt are explicit overrides and win
// over the base calendar: if any exception matches the day, the day
// is active iff one of the matching exceptions is of the Added kind.
// Only when no exception matches is the base calendar row consulted.
func (s *Snapshot) ServiceActive(serviceID string, day time.Time) bool {
	date := day.In(s.location).Format("20060102")

	matched := false
	for _, cd := range s.calendarDates[serviceID] {
		if cd.Date != date {
			continue
		}
		if cd.ExceptionType == model.ExceptionAdded {
			return true
		}
		matched = true
	}
	if matched {
		// Only Removed exceptions matched.
		return false
	}

	calendar := s.calendars[serviceID]
	if calendar == nil {
		return false
	}
	if date < calendar.StartDate || date > calendar.EndDate {
		return false
	}
	return calendar.Weekday&(1<<day.In(s.location).Weekday()) != 0
}

// Materializes the instant of a departure on the given service day.
// Computed as noon minus 12h plus the departure offset, so times are
// correct across DST transitions and hour overflows (a 25:10:00
// departure lands on the next civil day).
func (s *Snapshot) departureInstant(day time.Time, st *model.StopTime) time.Time {
	day = day.In(s.location)
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, s.location)
	return noon.Add(-12 * time.Hour).Add(st.DepartureTime())
}
