package parse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"tablica.dev/tablica/model"
)

var csvReaderOnce sync.Once

// Everything loaded from one feed archive. Warnings holds one entry
// per skipped row; a skipped row never fails the load.
type Feed struct {
	Stops         map[string]*model.Stop
	Trips         map[string]*model.Trip
	StopTimes     []*model.StopTime
	Calendars     map[string]*model.Calendar
	CalendarDates map[string][]*model.CalendarDate

	// Min and max dates ("YYYYMMDD") seen across calendar.txt and
	// calendar_dates.txt. Blank when neither table has valid rows.
	CalendarStart string
	CalendarEnd   string

	Warnings []string
}

// Parses a feed archive into an in-memory Feed.
//
// stops.txt, trips.txt and stop_times.txt are required: a load fails
// if any of them is absent, unparsable, or left with zero valid rows.
// calendar.txt and calendar_dates.txt are optional and yield empty
// tables when absent or unreadable.
func ParseFeed(buf []byte) (*Feed, error) {
	file := map[string]io.ReadCloser{
		"stops.txt":          nil,
		"trips.txt":          nil,
		"stop_times.txt":     nil,
		"calendar.txt":       nil,
		"calendar_dates.txt": nil,
	}

	defer func() {
		for _, rc := range file {
			if rc != nil {
				rc.Close()
			}
		}
	}()

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("unzipping: %w", err)
	}

	for _, f := range r.File {
		// There should not be any subdirectories. But, some
		// agencies don't care.
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.Split(f.Name, "/")
		fName := path[len(path)-1]

		if _, found := file[fName]; !found {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}

		file[fName] = rc
	}

	for _, required := range []string{"stops.txt", "trips.txt", "stop_times.txt"} {
		if file[required] == nil {
			return nil, fmt.Errorf("missing %s", required)
		}
	}

	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present. The
	// setter mutates gocsv package state, so concurrent loads must
	// only install it once.
	csvReaderOnce.Do(func() {
		gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			return gocsv.LazyCSVReader(bom.NewReader(in))
		})
	})

	feed := &Feed{
		Calendars:     map[string]*model.Calendar{},
		CalendarDates: map[string][]*model.CalendarDate{},
	}

	stops, warnings, err := ParseStops(file["stops.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing stops.txt: %w", err)
	}
	feed.Stops = stops
	feed.Warnings = append(feed.Warnings, warnings...)

	trips, warnings, err := ParseTrips(file["trips.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing trips.txt: %w", err)
	}
	feed.Trips = trips
	feed.Warnings = append(feed.Warnings, warnings...)

	stopTimes, warnings, err := ParseStopTimes(file["stop_times.txt"], trips, stops)
	if err != nil {
		return nil, fmt.Errorf("parsing stop_times.txt: %w", err)
	}
	feed.StopTimes = stopTimes
	feed.Warnings = append(feed.Warnings, warnings...)

	if file["calendar.txt"] != nil {
		calendars, minDate, maxDate, warnings, err := ParseCalendar(file["calendar.txt"])
		if err != nil {
			// Optional table: unreadable means empty, not fatal.
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("calendar.txt unreadable, treating as empty: %v", err))
		} else {
			feed.Calendars = calendars
			feed.CalendarStart = minDate
			feed.CalendarEnd = maxDate
			feed.Warnings = append(feed.Warnings, warnings...)
		}
	}

	if file["calendar_dates.txt"] != nil {
		calendarDates, minDate, maxDate, warnings, err := ParseCalendarDates(file["calendar_dates.txt"])
		if err != nil {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("calendar_dates.txt unreadable, treating as empty: %v", err))
		} else {
			feed.CalendarDates = calendarDates
			feed.Warnings = append(feed.Warnings, warnings...)
			if minDate != "" && (feed.CalendarStart == "" || minDate < feed.CalendarStart) {
				feed.CalendarStart = minDate
			}
			if maxDate != "" && (feed.CalendarEnd == "" || maxDate > feed.CalendarEnd) {
				feed.CalendarEnd = maxDate
			}
		}
	}

	return feed, nil
}
