package testutil

// Helpers and fixtures for tests.

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tablica.dev/tablica"
	"tablica.dev/tablica/parse"
)

// Builds a zip archive holding the given files, one line per string.
func BuildZip(t testing.TB, files map[string][]string) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for filename, content := range files {
		f, err := w.Create(filename)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(content, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// Fills in any required tables missing from files with minimal valid
// data, then parses the archive into a snapshot localized to the
// given time zone.
func BuildSnapshot(
	t testing.TB,
	timezone string,
	files map[string][]string,
) *tablica.Snapshot {

	if files["stops.txt"] == nil {
		files["stops.txt"] = []string{
			"stop_id,stop_name,stop_code,stop_lat,stop_lon",
			"S1,Główna,01,54.4641,17.0285",
		}
	}
	if files["trips.txt"] == nil {
		files["trips.txt"] = []string{
			"trip_id,route_id,service_id,trip_headsign",
			"T1,7,ALL,Centrum",
		}
	}
	if files["stop_times.txt"] == nil {
		files["stop_times.txt"] = []string{
			"trip_id,stop_id,departure_time",
			"T1,S1,12:00:00",
		}
	}
	if files["calendar.txt"] == nil && files["calendar_dates.txt"] == nil {
		files["calendar.txt"] = []string{
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"ALL,1,1,1,1,1,1,1,20200101,20301231",
		}
	}

	buf := BuildZip(t, files)

	feed, err := parse.ParseFeed(buf)
	require.NoError(t, err)

	location, err := time.LoadLocation(timezone)
	require.NoError(t, err)

	return tablica.NewSnapshot(feed, location, "test")
}
