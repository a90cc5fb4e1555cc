package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"tablica.dev/tablica/model"
)

type TripCSV struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	Headsign  string `csv:"trip_headsign"`
}

func ParseTrips(data io.Reader) (map[string]*model.Trip, []string, error) {
	tripCsv := []*TripCSV{}
	if err := gocsv.Unmarshal(data, &tripCsv); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling trips csv: %w", err)
	}

	trips := map[string]*model.Trip{}
	warnings := []string{}

	for i, t := range tripCsv {
		if t.ID == "" {
			warnings = append(warnings, fmt.Sprintf("trips.txt row %d: empty trip_id, skipping", i+1))
			continue
		}
		if t.RouteID == "" {
			warnings = append(warnings, fmt.Sprintf("trips.txt row %d: empty route_id for trip_id '%s', skipping", i+1, t.ID))
			continue
		}
		if t.ServiceID == "" {
			warnings = append(warnings, fmt.Sprintf("trips.txt row %d: empty service_id for trip_id '%s', skipping", i+1, t.ID))
			continue
		}
		if _, found := trips[t.ID]; found {
			warnings = append(warnings, fmt.Sprintf("trips.txt row %d: repeated trip_id '%s', skipping", i+1, t.ID))
			continue
		}

		trips[t.ID] = &model.Trip{
			ID:        t.ID,
			RouteID:   t.RouteID,
			ServiceID: t.ServiceID,
			Headsign:  t.Headsign,
		}
	}

	if len(trips) == 0 {
		return nil, nil, fmt.Errorf("no valid rows in trips.txt")
	}

	return trips, warnings, nil
}
