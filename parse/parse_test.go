package parse

import (
	"archive/zip"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, files map[string][]string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, lines := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(lines, "\n") + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func minimalFiles() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_code,stop_lat,stop_lon",
			"S1,Główna,01,54.4641,17.0285",
			"S2,Dworzec,02,54.4655,17.0300",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,trip_headsign",
			"T1,7,WEEK,Centrum",
			"T2,7,WEEK,Osiedle",
		},
		"stop_times.txt": {
			"trip_id,stop_id,departure_time",
			"T1,S1,06:30:00",
			"T1,S2,06:35:00",
			"T2,S1,25:10:00",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"WEEK,1,1,1,1,1,0,0,20240101,20241231",
		},
		"calendar_dates.txt": {
			"service_id,date,exception_type",
			"WEEK,20240501,2",
		},
	}
}

func TestParseFeed(t *testing.T) {
	feed, err := ParseFeed(buildArchive(t, minimalFiles()))
	require.NoError(t, err)

	assert.Len(t, feed.Stops, 2)
	assert.Len(t, feed.Trips, 2)
	assert.Len(t, feed.StopTimes, 3)
	assert.Len(t, feed.Calendars, 1)
	assert.Len(t, feed.CalendarDates["WEEK"], 1)
	assert.Equal(t, "20240101", feed.CalendarStart)
	assert.Equal(t, "20241231", feed.CalendarEnd)
	assert.Empty(t, feed.Warnings)

	assert.Equal(t, "Główna", feed.Stops["S1"].Name)
	assert.Equal(t, "Centrum", feed.Trips["T1"].Headsign)
	assert.Equal(t, "251000", feed.StopTimes[2].Departure)
}

func TestParseFeedNotAZip(t *testing.T) {
	_, err := ParseFeed([]byte("certainly not a zip archive"))
	assert.Error(t, err)
}

func TestParseFeedMissingRequiredTable(t *testing.T) {
	for _, table := range []string{"stops.txt", "trips.txt", "stop_times.txt"} {
		files := minimalFiles()
		delete(files, table)

		_, err := ParseFeed(buildArchive(t, files))
		assert.Error(t, err, table)
	}
}

func TestParseFeedCalendarsOptional(t *testing.T) {
	files := minimalFiles()
	delete(files, "calendar.txt")
	delete(files, "calendar_dates.txt")

	feed, err := ParseFeed(buildArchive(t, files))
	require.NoError(t, err)
	assert.Empty(t, feed.Calendars)
	assert.Empty(t, feed.CalendarDates)
	assert.Equal(t, "", feed.CalendarStart)
	assert.Equal(t, "", feed.CalendarEnd)
}

func TestParseFeedFilesInSubdirectory(t *testing.T) {
	files := map[string][]string{}
	for name, lines := range minimalFiles() {
		files["archive/"+name] = lines
	}

	feed, err := ParseFeed(buildArchive(t, files))
	require.NoError(t, err)
	assert.Len(t, feed.Stops, 2)
}

func TestParseFeedStripsBOM(t *testing.T) {
	files := minimalFiles()
	files["stops.txt"][0] = "\ufeff" + files["stops.txt"][0]

	feed, err := ParseFeed(buildArchive(t, files))
	require.NoError(t, err)
	assert.Contains(t, feed.Stops, "S1")
}

func TestParseFeedCollectsWarnings(t *testing.T) {
	files := minimalFiles()
	files["stops.txt"] = append(files["stops.txt"], ",Bezimienna,03,0,0")
	files["trips.txt"] = append(files["trips.txt"], "T3,,WEEK,Donikąd")
	files["stop_times.txt"] = append(files["stop_times.txt"], "T1,S1,whenever")

	feed, err := ParseFeed(buildArchive(t, files))
	require.NoError(t, err)
	assert.Len(t, feed.Warnings, 3)
	assert.Len(t, feed.Stops, 2)
	assert.Len(t, feed.Trips, 2)
	assert.Len(t, feed.StopTimes, 3)
}

func TestParseFeedConcurrent(t *testing.T) {
	buf := buildArchive(t, minimalFiles())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed, err := ParseFeed(buf)
			assert.NoError(t, err)
			assert.Len(t, feed.Stops, 2)
		}()
	}
	wg.Wait()
}

func TestParseFeedCalendarDatesExtendRange(t *testing.T) {
	files := minimalFiles()
	files["calendar_dates.txt"] = []string{
		"service_id,date,exception_type",
		"WEEK,20231224,1",
		"WEEK,20250106,1",
	}

	feed, err := ParseFeed(buildArchive(t, files))
	require.NoError(t, err)
	assert.Equal(t, "20231224", feed.CalendarStart)
	assert.Equal(t, "20250106", feed.CalendarEnd)
}
