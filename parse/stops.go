package parse

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"tablica.dev/tablica/model"
)

type StopCSV struct {
	ID   string `csv:"stop_id"`
	Code string `csv:"stop_code"`
	Name string `csv:"stop_name"`
	Lat  string `csv:"stop_lat"`
	Lon  string `csv:"stop_lon"`
}

// Lat and lon are parsed by hand so that a single bad coordinate
// degrades to a warning instead of failing the whole table.
func parseCoordinate(field, stopID, value string, warnings *[]string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("stop '%s': bad %s '%s', defaulting to 0", stopID, field, value))
		return 0
	}
	return f
}

func ParseStops(data io.Reader) (map[string]*model.Stop, []string, error) {
	stopCsv := []*StopCSV{}
	if err := gocsv.Unmarshal(data, &stopCsv); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling stops csv: %w", err)
	}

	stops := map[string]*model.Stop{}
	warnings := []string{}

	for i, st := range stopCsv {
		if st.ID == "" {
			warnings = append(warnings, fmt.Sprintf("stops.txt row %d: empty stop_id, skipping", i+1))
			continue
		}
		if st.Name == "" {
			warnings = append(warnings, fmt.Sprintf("stops.txt row %d: empty stop_name for stop_id '%s', skipping", i+1, st.ID))
			continue
		}
		if _, found := stops[st.ID]; found {
			warnings = append(warnings, fmt.Sprintf("stops.txt row %d: repeated stop_id '%s', skipping", i+1, st.ID))
			continue
		}

		stops[st.ID] = &model.Stop{
			ID:   st.ID,
			Name: st.Name,
			Code: st.Code,
			Lat:  parseCoordinate("stop_lat", st.ID, st.Lat, &warnings),
			Lon:  parseCoordinate("stop_lon", st.ID, st.Lon, &warnings),
		}
	}

	if len(stops) == 0 {
		return nil, nil, fmt.Errorf("no valid rows in stops.txt")
	}

	return stops, warnings, nil
}
