package tablica

import (
	"sort"
	"time"

	"tablica.dev/tablica/model"
)

const (
	// Days covered by a weekly schedule, today included.
	scheduleDays = 7

	// Nominal duration of a departure event.
	eventDuration = time.Minute
)

// Returns all departures of a route from a stop over the next
// scheduleDays calendar days, as events of eventDuration length,
// sorted by start instant. Events that have already ended are
// dropped, so the result is live relative to now. Each call
// recomputes from scratch; nothing is retained between calls.
func (s *Snapshot) WeekSchedule(routeID, stopID string, now time.Time) []model.ScheduleEvent {
	now = now.In(s.location)

	events := []model.ScheduleEvent{}

	stop := s.stops[stopID]
	if stop == nil {
		return events
	}

	for offset := 0; offset < scheduleDays; offset++ {
		day := now.AddDate(0, 0, offset)

		for _, trip := range s.tripsByRoute[routeID] {
			if !s.ServiceActive(trip.ServiceID, day) {
				continue
			}

			for _, st := range s.stopTimesByTrip[trip.ID] {
				if st.StopID != stopID {
					continue
				}

				start := s.departureInstant(day, st)
				end := start.Add(eventDuration)
				if end.Before(now) {
					continue
				}

				events = append(events, model.ScheduleEvent{
					RouteID:  routeID,
					Headsign: trip.Headsign,
					Start:    start,
					End:      end,
					StopName: stop.Name,
					StopCode: stop.Code,
					StopLat:  stop.Lat,
					StopLon:  stop.Lon,
				})
			}
		}
	}

	// Stable sort: equal instants keep generation order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events
}
