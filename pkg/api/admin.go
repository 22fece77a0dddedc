package api

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrIncorrectCredential = errors.New("incorrect admin password")

// AdminGate checks the admin password against a bcrypt hash. There is no
// lockout or rate limiting.
type AdminGate struct {
	hash []byte
}

// NewAdminGate returns a gate for hash. An empty hash denies everyone.
func NewAdminGate(hash string) (*AdminGate, error) {
	if hash == "" {
		log.Warn("No admin password hash configured, admin panel is disabled")
		return &AdminGate{}, nil
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &AdminGate{hash: []byte(hash)}, nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (g *AdminGate) Check(password string) error {
	if len(g.hash) == 0 || password == "" {
		return ErrIncorrectCredential
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrIncorrectCredential
	}
	return nil
}

// Middleware requires HTTP basic auth; the username is ignored.
func (g *AdminGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			http.Error(w, "admin password required", http.StatusUnauthorized)
			return
		}
		if err := g.Check(password); err != nil {
			requestLog(r).Warn("Admin access denied")
			w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
