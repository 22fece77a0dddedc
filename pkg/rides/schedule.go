package rides

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

var clockPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

// Policy decides what happens to a stored ride whose date/time does not parse.
type Policy int

const (
	// PolicyFail aborts the whole operation.
	PolicyFail Policy = iota
	// PolicySkip keeps the ride, never prunes it and sorts it last.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	default:
		return "fail"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "skip":
		return PolicySkip, nil
	}
	return PolicyFail, fmt.Errorf("unknown malformed row policy %q", s)
}

// ParseScheduledAt combines a YYYY-MM-DD date and an H:MM AM|PM clock time into
// an instant in loc. 12 AM is midnight and 12 PM is noon.
func ParseScheduledAt(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if !clockPattern.MatchString(clock) {
		return time.Time{}, &MalformedTimeError{Date: date, Time: clock}
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, &MalformedTimeError{Date: date, Time: clock, Err: err}
	}
	return t, nil
}

// FormatTime renders the booking form's hour, minute and period the way rides are stored.
func FormatTime(hour, minute int, period string) string {
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}
