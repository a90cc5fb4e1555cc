package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"tablica.dev/tablica/model"
)

type StopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	DepartureTime string `csv:"departure_time"`
}

// Normalizes "H:MM:SS" / "HH:MM:SS" to "HHMMSS". Hours up to 99 are
// accepted, as feeds use hours past 23 for trips continuing past
// midnight.
func parseStopTimeTime(s string) (string, error) {
	split := strings.Split(s, ":")
	if len(split) != 3 {
		return "", fmt.Errorf("found %d parts in '%s'", len(split), s)
	}

	hms := [3]int{}
	for i, str := range split {
		j, err := strconv.Atoi(str)
		if err != nil {
			return "", fmt.Errorf("non-integer in '%s' pos %d", s, i)
		}
		hms[i] = j
	}

	if hms[0] < 0 || hms[0] > 99 {
		return "", fmt.Errorf("invalid hour in '%s'", s)
	}

	if hms[1] < 0 || hms[1] > 59 {
		return "", fmt.Errorf("invalid minute in '%s'", s)
	}

	if hms[2] < 0 || hms[2] > 59 {
		return "", fmt.Errorf("invalid second in '%s'", s)
	}

	return fmt.Sprintf("%02d%02d%02d", hms[0], hms[1], hms[2]), nil
}

func ParseStopTimes(
	data io.Reader,
	trips map[string]*model.Trip,
	stops map[string]*model.Stop,
) ([]*model.StopTime, []string, error) {

	stopTimes := []*model.StopTime{}
	warnings := []string{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *StopTimeCSV) error {
		i += 1
		if _, found := trips[st.TripID]; !found {
			warnings = append(warnings, fmt.Sprintf("stop_times.txt row %d: unknown trip_id '%s', skipping", i+1, st.TripID))
			return nil
		}
		if st.StopID == "" {
			warnings = append(warnings, fmt.Sprintf("stop_times.txt row %d: missing stop_id, skipping", i+1))
			return nil
		}
		if _, found := stops[st.StopID]; !found {
			warnings = append(warnings, fmt.Sprintf("stop_times.txt row %d: unknown stop_id '%s', skipping", i+1, st.StopID))
			return nil
		}

		departureTime, err := parseStopTimeTime(st.DepartureTime)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("stop_times.txt row %d: bad departure_time: %v, skipping", i+1, err))
			return nil
		}

		stopTimes = append(stopTimes, &model.StopTime{
			TripID:    st.TripID,
			StopID:    st.StopID,
			Departure: departureTime,
		})

		return nil
	})

	if err != nil {
		return nil, nil, errors.Wrap(err, "unmarshaling stop_times csv")
	}

	if len(stopTimes) == 0 {
		return nil, nil, fmt.Errorf("no valid rows in stop_times.txt")
	}

	return stopTimes, warnings, nil
}
