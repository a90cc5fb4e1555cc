package tablica

import (
	"sort"
	"time"

	"tablica.dev/tablica/model"
)

// Limit on upcoming departures returned per line.
const departuresPerLine = 2

// Returns the next departures from a stop, keyed by route (line) ID,
// at most departuresPerLine per route, ordered by instant.
//
// Candidates are drawn from two pools: departures later today whose
// service runs today, and tomorrow's departures whose service runs
// tomorrow. Each line is filled from today's pool first and topped up
// from tomorrow's. Lines with no qualifying departure are omitted.
func (s *Snapshot) NextDepartures(stopID string, now time.Time) map[string][]model.Departure {
	now = now.In(s.location)
	tomorrow := now.AddDate(0, 0, 1)

	// The snapshot is immutable, so service activity per day can
	// be memoized for the duration of the call.
	activeToday := map[string]bool{}
	activeTomorrow := map[string]bool{}
	active := func(memo map[string]bool, serviceID string, day time.Time) bool {
		v, found := memo[serviceID]
		if !found {
			v = s.ServiceActive(serviceID, day)
			memo[serviceID] = v
		}
		return v
	}

	todayPool := []model.Departure{}
	tomorrowPool := []model.Departure{}

	for _, st := range s.stopTimesByStop[stopID] {
		trip := s.trips[st.TripID]
		if trip == nil {
			continue
		}

		dep := model.Departure{
			RouteID:   trip.RouteID,
			Headsign:  trip.Headsign,
			ServiceID: trip.ServiceID,
			Departure: st.Departure,
		}

		// Both pools are filled unconditionally: a line with
		// nothing left today may still need tomorrow's entries.
		if t := s.departureInstant(now, st); !t.Before(now) && active(activeToday, trip.ServiceID, now) {
			dep.Time = t
			todayPool = append(todayPool, dep)
		}
		if active(activeTomorrow, trip.ServiceID, tomorrow) {
			dep.Time = s.departureInstant(tomorrow, st)
			tomorrowPool = append(tomorrowPool, dep)
		}
	}

	sort.SliceStable(todayPool, func(i, j int) bool {
		return todayPool[i].Time.Before(todayPool[j].Time)
	})
	sort.SliceStable(tomorrowPool, func(i, j int) bool {
		return tomorrowPool[i].Time.Before(tomorrowPool[j].Time)
	})

	departures := map[string][]model.Departure{}
	for _, pool := range [][]model.Departure{todayPool, tomorrowPool} {
		for _, dep := range pool {
			if len(departures[dep.RouteID]) < departuresPerLine {
				departures[dep.RouteID] = append(departures[dep.RouteID], dep)
			}
		}
	}

	// Today's pool has priority for selection, but an hour-overflow
	// departure picked from it (say 25:30:00) can land after a
	// tomorrow-pool entry, so the emitted order needs its own sort.
	for _, deps := range departures {
		sort.SliceStable(deps, func(i, j int) bool {
			return deps[i].Time.Before(deps[j].Time)
		})
	}

	return departures
}
