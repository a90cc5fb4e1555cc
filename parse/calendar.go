package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"tablica.dev/tablica/model"
)

type CalendarCSV struct {
	ServiceID string `csv:"service_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

func (c *CalendarCSV) weekdayMask() (int8, error) {
	days := []struct {
		name  string
		value int8
		bit   time.Weekday
	}{
		{"monday", c.Monday, time.Monday},
		{"tuesday", c.Tuesday, time.Tuesday},
		{"wednesday", c.Wednesday, time.Wednesday},
		{"thursday", c.Thursday, time.Thursday},
		{"friday", c.Friday, time.Friday},
		{"saturday", c.Saturday, time.Saturday},
		{"sunday", c.Sunday, time.Sunday},
	}

	var mask int8
	for _, d := range days {
		if d.value == 1 {
			mask |= 1 << d.bit
		} else if d.value != 0 {
			return 0, fmt.Errorf("invalid %s value '%d'", d.name, d.value)
		}
	}
	return mask, nil
}

// Returns calendar rows by service ID, along with min and max dates
// seen. On repeated service_id the last row wins.
func ParseCalendar(data io.Reader) (map[string]*model.Calendar, string, string, []string, error) {
	calendarCsv := []*CalendarCSV{}
	if err := gocsv.Unmarshal(data, &calendarCsv); err != nil {
		return nil, "", "", nil, fmt.Errorf("unmarshaling calendar csv: %w", err)
	}

	calendars := map[string]*model.Calendar{}
	warnings := []string{}

	var minDate, maxDate string

	for i, c := range calendarCsv {
		if c.ServiceID == "" {
			warnings = append(warnings, fmt.Sprintf("calendar.txt row %d: empty service_id, skipping", i+1))
			continue
		}

		mask, err := c.weekdayMask()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar.txt row %d: %v, skipping", i+1, err))
			continue
		}

		if _, err := time.ParseInLocation("20060102", c.StartDate, time.UTC); err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar.txt row %d: bad start_date '%s', skipping", i+1, c.StartDate))
			continue
		}
		if _, err := time.ParseInLocation("20060102", c.EndDate, time.UTC); err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar.txt row %d: bad end_date '%s', skipping", i+1, c.EndDate))
			continue
		}
		if c.StartDate > c.EndDate {
			warnings = append(warnings, fmt.Sprintf("calendar.txt row %d: start_date '%s' after end_date '%s', skipping", i+1, c.StartDate, c.EndDate))
			continue
		}

		if minDate == "" || c.StartDate < minDate {
			minDate = c.StartDate
		}
		if maxDate == "" || c.EndDate > maxDate {
			maxDate = c.EndDate
		}

		calendars[c.ServiceID] = &model.Calendar{
			ServiceID: c.ServiceID,
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
			Weekday:   mask,
		}
	}

	return calendars, minDate, maxDate, warnings, nil
}
