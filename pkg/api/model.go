package api

import (
	"fmt"
	"strings"
	"time"

	"ridebooking/pkg/rides"
)

// BookingRequest is what the booking form submits.
type BookingRequest struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Period  string `json:"period"`
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
}

// Ride validates the request against the current time in loc and builds the
// ride to store. The date may not be earlier than today.
func (b BookingRequest) Ride(now time.Time, loc *time.Location) (rides.Ride, error) {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", rides.ErrInvalidBooking, fmt.Sprintf(format, args...))
	}

	name := strings.TrimSpace(b.Name)
	pickup := strings.TrimSpace(b.Pickup)
	dropoff := strings.TrimSpace(b.Dropoff)
	switch {
	case name == "":
		return rides.Ride{}, invalid("name is required")
	case pickup == "":
		return rides.Ride{}, invalid("pickup location is required")
	case dropoff == "":
		return rides.Ride{}, invalid("drop-off location is required")
	case b.Hour < 1 || b.Hour > 12:
		return rides.Ride{}, invalid("hour must be between 1 and 12, got %d", b.Hour)
	case b.Minute < 0 || b.Minute > 59:
		return rides.Ride{}, invalid("minute must be between 0 and 59, got %d", b.Minute)
	}
	period := strings.ToUpper(strings.TrimSpace(b.Period))
	if period != "AM" && period != "PM" {
		return rides.Ride{}, invalid("period must be AM or PM, got %q", b.Period)
	}

	date, err := time.ParseInLocation(rides.DateLayout, strings.TrimSpace(b.Date), loc)
	if err != nil {
		return rides.Ride{}, invalid("date must be YYYY-MM-DD, got %q", b.Date)
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) {
		return rides.Ride{}, invalid("date %s is in the past", b.Date)
	}

	return rides.Ride{
		Name:    name,
		Date:    date.Format(rides.DateLayout),
		Time:    rides.FormatTime(b.Hour, b.Minute, period),
		Pickup:  pickup,
		Dropoff: dropoff,
	}, nil
}

// RideView is one row of a rendered ride table.
type RideView struct {
	Label     string `json:"label"`
	Overdue   bool   `json:"overdue,omitempty"`
	Malformed bool   `json:"malformed,omitempty"`
	rides.Ride
}

type BookingView struct {
	Rides []RideView `json:"rides"`
}

// AdminRideView numbers a ride by its position in the reconciled sheet. Only
// this index is a valid delete key.
type AdminRideView struct {
	Index int `json:"index"`
	RideView
}

type AdminView struct {
	Rides     []AdminRideView `json:"rides"`
	Pruned    int             `json:"pruned"`
	Reordered bool            `json:"reordered"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toViews(r *rides.Reconciler, list []rides.Ride, now time.Time) []RideView {
	views := make([]RideView, len(list))
	for i, ride := range list {
		v := RideView{Label: ride.Label(), Ride: ride}
		at, err := r.ScheduledAt(ride)
		if err != nil {
			v.Malformed = true
		} else {
			v.Overdue = !now.Before(at)
		}
		views[i] = v
	}
	return views
}

func toAdminViews(r *rides.Reconciler, list []rides.Ride, now time.Time) []AdminRideView {
	views := toViews(r, list, now)
	out := make([]AdminRideView, len(views))
	for i, v := range views {
		out[i] = AdminRideView{Index: i, RideView: v}
	}
	return out
}
