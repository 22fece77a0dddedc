package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	return applyRoutes(r, h)
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Get("/healthz", getHealth)

	r.Get("/", h.getIndex)
	r.Post("/book", h.postBook)
	r.Group(func(r chi.Router) {
		r.Use(h.admin.Middleware)
		r.Get("/admin", h.getAdmin)
		r.Post("/admin/delete", h.postAdminDelete)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/rides", h.getRides)
		r.Post("/rides", h.postRide)
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.admin.Middleware)
			r.Get("/rides", h.getAdminRides)
			r.Delete("/rides/{index}", h.deleteAdminRide)
		})
	})

	return r
}

type requestIDKey struct{}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-Id", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		next.ServeHTTP(ww, r)

		requestLog(r).WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func requestLog(r *http.Request) *log.Entry {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return log.WithField("request_id", id)
}
