// Package server exposes the household calendar and planning API over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

// EventStore is the slice of the event repository the API needs.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.Event, error)
	GetForWindow(ctx context.Context, householdID uuid.UUID, from, to time.Time) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddExDate(ctx context.Context, id uuid.UUID, at time.Time) error
	AddRDate(ctx context.Context, id uuid.UUID, at time.Time) error
}

// HouseholdStore resolves the household a request is scoped to.
type HouseholdStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

// Server routes API requests to the stores and the expansion engine.
type Server struct {
	events     EventStore
	households HouseholdStore
	auth       Authenticator
	defaultTZ  string
	mux        *http.ServeMux
}

func New(events EventStore, households HouseholdStore, auth Authenticator, defaultTZ string) *Server {
	s := &Server{
		events:     events,
		households: households,
		auth:       auth,
		defaultTZ:  defaultTZ,
		mux:        http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler wrapped with authentication.
func (s *Server) Handler() http.Handler {
	return s.authMiddleware(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/events/", s.handleEventByID)
	s.mux.HandleFunc("/api/calendar", s.handleCalendar)
	s.mux.HandleFunc("/api/calendar/conflicts", s.handleConflicts)
	s.mux.HandleFunc("/api/templates", s.handleTemplates)
	s.mux.HandleFunc("/api/templates/suggest", s.handleTemplateSuggest)
	s.mux.HandleFunc("/api/rrule/describe", s.handleDescribe)
	s.mux.HandleFunc("/calendar.ics", s.handleICSFeed)
}

// authMiddleware guards everything except /health, which stays open for
// liveness probes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		if !s.auth.Authenticate(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// householdFromRequest resolves the household_id query parameter. It writes
// the error response itself so handlers can just bail on !ok.
func (s *Server) householdFromRequest(w http.ResponseWriter, r *http.Request) (*models.Household, bool) {
	raw := r.URL.Query().Get("household_id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "household_id is required")
		return nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "household_id must be a UUID")
		return nil, false
	}
	household, err := s.households.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "household not found")
		} else {
			log.Printf("server: loading household %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to load household")
		}
		return nil, false
	}
	return household, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: writing JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

// Authenticator decides whether a request may use the API.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// NoAuth allows every request. Used when no API key is configured.
type NoAuth struct{}

func (NoAuth) Authenticate(*http.Request) bool { return true }

// APIKeyAuth accepts the key from the X-API-Key header or, for feed URLs
// that cannot set headers, the apikey query parameter.
type APIKeyAuth struct {
	Key string
}

func (a APIKeyAuth) Authenticate(r *http.Request) bool {
	provided := r.Header.Get("X-API-Key")
	if provided == "" {
		provided = r.URL.Query().Get("apikey")
	}
	return secureCompare(provided, a.Key)
}

// NewAuthenticator picks an authenticator for the configured key.
func NewAuthenticator(apiKey string) Authenticator {
	if apiKey == "" {
		return NoAuth{}
	}
	return APIKeyAuth{Key: apiKey}
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
