package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"tablica.dev/tablica/model"
)

type CalendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

// Returns exception rows grouped by service ID in file order, along
// with min and max dates seen. Multiple rows for the same (service,
// date) pair are kept; the resolver arbitrates between them.
func ParseCalendarDates(data io.Reader) (map[string][]*model.CalendarDate, string, string, []string, error) {
	calendarDateCsv := []*CalendarDateCSV{}
	if err := gocsv.Unmarshal(data, &calendarDateCsv); err != nil {
		return nil, "", "", nil, fmt.Errorf("unmarshaling calendar_dates csv: %w", err)
	}

	calendarDates := map[string][]*model.CalendarDate{}
	warnings := []string{}

	var minDate, maxDate string

	for i, cd := range calendarDateCsv {
		if cd.ServiceID == "" {
			warnings = append(warnings, fmt.Sprintf("calendar_dates.txt row %d: empty service_id, skipping", i+1))
			continue
		}
		if cd.ExceptionType < 1 || cd.ExceptionType > 2 {
			warnings = append(warnings, fmt.Sprintf("calendar_dates.txt row %d: illegal exception_type '%d', skipping", i+1, cd.ExceptionType))
			continue
		}
		if _, err := time.ParseInLocation("20060102", cd.Date, time.UTC); err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar_dates.txt row %d: bad date '%s', skipping", i+1, cd.Date))
			continue
		}

		if minDate == "" || cd.Date < minDate {
			minDate = cd.Date
		}
		if maxDate == "" || cd.Date > maxDate {
			maxDate = cd.Date
		}

		calendarDates[cd.ServiceID] = append(calendarDates[cd.ServiceID], &model.CalendarDate{
			ServiceID:     cd.ServiceID,
			Date:          cd.Date,
			ExceptionType: model.ExceptionType(cd.ExceptionType),
		})
	}

	return calendarDates, minDate, maxDate, warnings, nil
}
