package rides

import (
	"errors"
	"fmt"

	"ridebooking/pkg/sheets"
)

var (
	ErrStoreUnavailable = sheets.ErrUnavailable
	ErrMalformedTime    = errors.New("malformed ride date/time")
	ErrIndexOutOfRange  = errors.New("ride index out of range")
	ErrInvalidBooking   = errors.New("invalid booking")
)

// MalformedTimeError reports a date/time pair that does not match
// YYYY-MM-DD and H:MM AM|PM.
type MalformedTimeError struct {
	Date string
	Time string
	Err  error
}

func (e *MalformedTimeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %q %q", ErrMalformedTime, e.Date, e.Time)
	}
	return fmt.Sprintf("%v: %q %q: %v", ErrMalformedTime, e.Date, e.Time, e.Err)
}

func (e *MalformedTimeError) Unwrap() error { return e.Err }

func (e *MalformedTimeError) Is(target error) bool { return target == ErrMalformedTime }
