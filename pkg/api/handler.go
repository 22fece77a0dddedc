package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ridebooking/pkg/rides"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

var nowFunc = time.Now

// errRejectedTime marks a malformed date/time that came from the client
// rather than from a stored row.
var errRejectedTime = errors.New("submitted date/time rejected")

type Handler struct {
	rides *rides.Reconciler
	admin *AdminGate
}

func NewHandler(r *rides.Reconciler, admin *AdminGate) *Handler {
	return &Handler{rides: r, admin: admin}
}

// bookingView lists every stored ride sorted by schedule, expired ones included.
func (h *Handler) bookingView(r *http.Request) (BookingView, error) {
	all, err := h.rides.Load(r.Context())
	if err != nil {
		return BookingView{}, err
	}
	sorted, err := h.rides.SortByScheduledAt(all)
	if err != nil {
		return BookingView{}, err
	}
	return BookingView{Rides: toViews(h.rides, sorted, nowFunc())}, nil
}

// adminView prunes expired rides and persists the sorted order before listing.
func (h *Handler) adminView(r *http.Request) (AdminView, error) {
	now := nowFunc()
	res, err := h.rides.Reconcile(r.Context(), now)
	if err != nil {
		return AdminView{}, err
	}
	if res.Pruned > 0 || res.Reordered {
		requestLog(r).WithFields(log.Fields{
			"pruned":    res.Pruned,
			"reordered": res.Reordered,
		}).Info("Admin view rewrote the sheet")
	}
	return AdminView{
		Rides:     toAdminViews(h.rides, res.Rides, now),
		Pruned:    res.Pruned,
		Reordered: res.Reordered,
	}, nil
}

func (h *Handler) book(r *http.Request, req BookingRequest) (rides.Ride, error) {
	ride, err := req.Ride(nowFunc(), h.rides.Location())
	if err != nil {
		return rides.Ride{}, err
	}
	if err := h.rides.Book(r.Context(), ride); err != nil {
		if errors.Is(err, rides.ErrMalformedTime) {
			return rides.Ride{}, fmt.Errorf("%w: %w", errRejectedTime, err)
		}
		return rides.Ride{}, err
	}
	return ride, nil
}

// deleteSelected resolves index against the admin view: the sheet is pruned
// and sorted first, so the index means what GET /api/admin/rides reported.
func (h *Handler) deleteSelected(r *http.Request, index int, label string) ([]rides.Ride, error) {
	res, err := h.rides.Reconcile(r.Context(), nowFunc())
	if err != nil {
		return nil, err
	}
	if err := rides.CheckSelection(res.Rides, index, label); err != nil {
		return nil, err
	}
	return h.rides.DeleteRide(r.Context(), res.Rides, index)
}

func (h *Handler) getRides(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, view)
}

func (h *Handler) postRide(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Join(rides.ErrInvalidBooking, err))
		return
	}
	ride, err := h.book(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, ride)
}

func (h *Handler) getAdminRides(w http.ResponseWriter, r *http.Request) {
	view, err := h.adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, view)
}

func (h *Handler) deleteAdminRide(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, errors.Join(rides.ErrIndexOutOfRange, err))
		return
	}
	remaining, err := h.deleteSelected(r, index, r.URL.Query().Get("label"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, AdminView{Rides: toAdminViews(h.rides, remaining, nowFunc())})
}

func getHealth(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, http.StatusOK, []byte(`{"status":"ok"}`))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errRejectedTime):
		return http.StatusUnprocessableEntity
	case errors.Is(err, rides.ErrInvalidBooking):
		return http.StatusBadRequest
	case errors.Is(err, ErrIncorrectCredential):
		return http.StatusUnauthorized
	case errors.Is(err, rides.ErrIndexOutOfRange):
		return http.StatusConflict
	case errors.Is(err, rides.ErrStoreUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := requestLog(r).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	if !strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, err.Error(), status)
		return
	}
	sendJSON(w, status, errorResponse{Error: err.Error()})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Failed to encode response: %v", err)
		sendResponse(w, http.StatusInternalServerError, []byte(`{"error":"encoding failed"}`))
		return
	}
	sendResponse(w, status, body)
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
