package input

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// time.Parse tolerates fractional seconds after "05"; only HH:MM:SS is valid.
var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`)

var errClockFormat = errors.New("expected HH:MM or HH:MM:SS")

// ParseUserDateTime combines a YYYY-MM-DD date and an HH:MM or HH:MM:SS time
// into a UTC timestamp. The wall-clock value is taken as UTC as-is.
func ParseUserDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, &ParseError{Field: "date", Value: date, Err: err}
	}

	// HH:MM gets zero seconds; everything else must be HH:MM:SS.
	full := clock
	if strings.Count(clock, ":") == 1 {
		full = clock + ":00"
	}

	if !clockPattern.MatchString(full) {
		return time.Time{}, &ParseError{Field: "time", Value: clock, Err: errClockFormat}
	}
	t, err := time.Parse(timeLayout, full)
	if err != nil {
		return time.Time{}, &ParseError{Field: "time", Value: clock, Err: err}
	}
	if t.Nanosecond() != 0 {
		return time.Time{}, &ParseError{Field: "time", Value: clock, Err: errClockFormat}
	}

	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}
