package api

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ridebooking/pkg/rides"
)

const layout = `{{define "top"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Ride Booking</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
tr.overdue { background-color: #ffcccc; }
tr.malformed { background-color: #fff3cd; }
.error { color: #b00020; }
.success { color: #1b5e20; }
</style>
</head>
<body>
<h1>Ride Booking App</h1>
<p><a href="/">Book a Ride</a> | <a href="/admin">Admin Panel</a></p>
{{if .Message}}<p class="success">{{.Message}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{end}}
{{define "table"}}
<table>
<tr><th>Name</th><th>Date</th><th>Time</th><th>Pickup</th><th>Dropoff</th></tr>
{{range .}}<tr{{if .Overdue}} class="overdue"{{else if .Malformed}} class="malformed"{{end}}>
<td>{{.Name}}</td><td>{{.Date}}</td><td>{{.Time}}</td><td>{{.Pickup}}</td><td>{{.Dropoff}}</td>
</tr>
{{end}}</table>
{{end}}`

const bookingPage = `{{template "top" .}}
<h2>Book your ride</h2>
<form method="post" action="/book">
<p><label>Your Name <input name="name" required></label></p>
<p><label>Ride Date <input type="date" name="date" min="{{.Today}}" required></label></p>
<p>
<label>Hour <input type="number" name="hour" min="1" max="12" value="11" required></label>
<label>Minute <input type="number" name="minute" min="0" max="59" value="0" required></label>
<select name="period"><option>AM</option><option>PM</option></select>
</p>
<p><label>Pickup Location <input name="pickup" required></label></p>
<p><label>Drop-off Location <input name="dropoff" required></label></p>
<p><button type="submit">Book Ride</button></p>
</form>
<h2>Booked Rides</h2>
{{if .Rides}}{{template "table" .Rides}}{{else}}<p>No rides booked yet.</p>{{end}}
</body></html>`

const adminPage = `{{template "top" .}}
<h2>Admin: Booked Rides</h2>
{{if .Admin}}
<p>Active rides below (expired rides removed{{if .Pruned}}: {{.Pruned}} pruned{{end}}):</p>
{{template "table" .Admin}}
<h3>Delete a specific ride</h3>
<form method="post" action="/admin/delete">
<select name="selection">
{{range .Admin}}<option value="{{.Index}}:{{.Label}}">{{.Label}}</option>
{{end}}</select>
<button type="submit">Delete Selected Ride</button>
</form>
{{else}}<p>No active rides booked.</p>{{end}}
</body></html>`

var (
	bookingTmpl = template.Must(template.Must(template.New("layout").Parse(layout)).New("booking").Parse(bookingPage))
	adminTmpl   = template.Must(template.Must(template.New("layout").Parse(layout)).New("admin").Parse(adminPage))
)

type pageData struct {
	Message string
	Error   string
	Today   string
	Rides   []RideView
	Admin   []AdminRideView
	Pruned  int
}

func renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		requestLog(r).WithError(err).Error("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) today() string {
	return nowFunc().In(h.rides.Location()).Format(rides.DateLayout)
}

func (h *Handler) renderBooking(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	view, err := h.bookingView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data.Today = h.today()
	data.Rides = view.Rides
	renderPage(w, r, bookingTmpl, status, data)
}

func (h *Handler) getIndex(w http.ResponseWriter, r *http.Request) {
	h.renderBooking(w, r, http.StatusOK, pageData{Message: r.URL.Query().Get("msg")})
}

func (h *Handler) postBook(w http.ResponseWriter, r *http.Request) {
	ride, err := h.bookFromForm(r)
	switch {
	case err == nil:
		msg := "Ride booked for " + ride.Name + " on " + ride.Date + " at " + ride.Time + "!"
		http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
	case errors.Is(err, rides.ErrInvalidBooking), errors.Is(err, errRejectedTime):
		requestLog(r).WithError(err).Info("Booking rejected")
		h.renderBooking(w, r, http.StatusBadRequest, pageData{Error: err.Error()})
	default:
		writeError(w, r, err)
	}
}

func (h *Handler) bookFromForm(r *http.Request) (rides.Ride, error) {
	req, err := bookingFromForm(r)
	if err != nil {
		return rides.Ride{}, err
	}
	return h.book(r, req)
}

func bookingFromForm(r *http.Request) (BookingRequest, error) {
	if err := r.ParseForm(); err != nil {
		return BookingRequest{}, errors.Join(rides.ErrInvalidBooking, err)
	}
	hour, err := strconv.Atoi(r.PostFormValue("hour"))
	if err != nil {
		return BookingRequest{}, errors.Join(rides.ErrInvalidBooking, errors.New("hour must be a number"))
	}
	minute, err := strconv.Atoi(r.PostFormValue("minute"))
	if err != nil {
		return BookingRequest{}, errors.Join(rides.ErrInvalidBooking, errors.New("minute must be a number"))
	}
	return BookingRequest{
		Name:    r.PostFormValue("name"),
		Date:    r.PostFormValue("date"),
		Hour:    hour,
		Minute:  minute,
		Period:  r.PostFormValue("period"),
		Pickup:  r.PostFormValue("pickup"),
		Dropoff: r.PostFormValue("dropoff"),
	}, nil
}

func (h *Handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	view, err := h.adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	renderPage(w, r, adminTmpl, http.StatusOK, pageData{
		Message: r.URL.Query().Get("msg"),
		Admin:   view.Rides,
		Pruned:  view.Pruned,
	})
}

func (h *Handler) postAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, errors.Join(rides.ErrIndexOutOfRange, err))
		return
	}
	index, label, err := parseSelection(r.PostFormValue("selection"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.deleteSelected(r, index, label); err != nil {
		if errors.Is(err, rides.ErrIndexOutOfRange) {
			// Stale selection: show the current rides again instead of failing
			h.renderAdminError(w, r, err)
			return
		}
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin?msg="+url.QueryEscape("Ride deleted!"), http.StatusSeeOther)
}

func (h *Handler) renderAdminError(w http.ResponseWriter, r *http.Request, cause error) {
	requestLog(r).WithError(cause).Info("Delete rejected")
	view, err := h.adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	renderPage(w, r, adminTmpl, http.StatusConflict, pageData{
		Error:  "Could not delete ride: " + cause.Error(),
		Admin:  view.Rides,
		Pruned: view.Pruned,
	})
}

// parseSelection splits the "index:label" value of the delete selector.
func parseSelection(v string) (int, string, error) {
	idx, label, _ := strings.Cut(v, ":")
	index, err := strconv.Atoi(idx)
	if err != nil {
		return 0, "", errors.Join(rides.ErrIndexOutOfRange, err)
	}
	return index, label, nil
}
