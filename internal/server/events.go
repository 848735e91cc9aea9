package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/templates"
)

type createEventRequest struct {
	HouseholdID     string      `json:"household_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	StartAt         time.Time   `json:"start_at"`
	EndAt           time.Time   `json:"end_at"`
	Timezone        string      `json:"timezone"`
	IsAllDay        bool        `json:"is_all_day"`
	RRule           string      `json:"rrule"`
	ExDates         []time.Time `json:"exdates"`
	RDates          []time.Time `json:"rdates"`
	Location        string      `json:"location"`
	ReminderMinutes []int       `json:"reminder_minutes"`
	Color           string      `json:"color"`
	TemplateID      string      `json:"template_id"`
}

type eventsResponse struct {
	Events []*models.Event `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEvents(w, r)
	case http.MethodPost:
		s.createEvent(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	household, ok := s.householdFromRequest(w, r)
	if !ok {
		return
	}

	events, err := s.events.GetByHousehold(r.Context(), household.ID)
	if err != nil {
		log.Printf("server: listing events for household %s: %v", household.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	householdID, err := uuid.Parse(req.HouseholdID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "household_id must be a UUID")
		return
	}
	household, err := s.households.GetByID(r.Context(), householdID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "household not found")
		} else {
			log.Printf("server: loading household %s: %v", householdID, err)
			writeError(w, http.StatusInternalServerError, "failed to load household")
		}
		return
	}

	if req.TemplateID != "" {
		tpl, ok := templates.ByID(req.TemplateID)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown template_id")
			return
		}
		applyTemplate(&req, tpl)
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.StartAt.IsZero() {
		writeError(w, http.StatusBadRequest, "start_at is required")
		return
	}
	if !req.EndAt.After(req.StartAt) {
		writeError(w, http.StatusBadRequest, "end_at must be after start_at")
		return
	}
	if req.RRule != "" {
		if _, err := rrule.Parse(req.RRule, req.StartAt); err != nil {
			writeError(w, http.StatusBadRequest, "invalid rrule")
			return
		}
	}
	if req.Timezone == "" {
		req.Timezone = household.Timezone
	}

	event := &models.Event{
		ID:              uuid.New(),
		HouseholdID:     household.ID,
		Title:           req.Title,
		Description:     req.Description,
		StartAt:         req.StartAt.UTC(),
		EndAt:           req.EndAt.UTC(),
		Timezone:        req.Timezone,
		IsAllDay:        req.IsAllDay,
		RRule:           req.RRule,
		ExDates:         req.ExDates,
		RDates:          req.RDates,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
		Color:           req.Color,
	}
	if err := s.events.Create(r.Context(), event); err != nil {
		log.Printf("server: creating event %q: %v", event.Title, err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// applyTemplate fills request fields the caller left empty. An explicit
// end_at wins over the template duration.
func applyTemplate(req *createEventRequest, tpl templates.Template) {
	if req.Title == "" {
		req.Title = tpl.Name
	}
	if req.RRule == "" {
		req.RRule = tpl.RRule
	}
	if req.Location == "" {
		req.Location = tpl.Location
	}
	if req.ReminderMinutes == nil {
		req.ReminderMinutes = tpl.ReminderMinutes
	}
	if req.Color == "" {
		req.Color = tpl.Color
	}
	if !req.IsAllDay {
		req.IsAllDay = tpl.IsAllDay
	}
	if req.EndAt.IsZero() && !req.StartAt.IsZero() {
		req.EndAt = req.StartAt.Add(tpl.Duration())
	}
}

func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/events/")
	idRaw, sub, _ := strings.Cut(rest, "/")
	if idRaw == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be a UUID")
		return
	}

	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
		} else {
			log.Printf("server: loading event %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to load event")
		}
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, event)
		case http.MethodPut:
			s.updateEvent(w, r, event)
		case http.MethodDelete:
			if err := s.events.Delete(r.Context(), id); err != nil {
				log.Printf("server: deleting event %s: %v", id, err)
				writeError(w, http.StatusInternalServerError, "failed to delete event")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case "exdates":
		s.addEventDate(w, r, event, s.events.AddExDate)
	case "rdates":
		s.addEventDate(w, r, event, s.events.AddRDate)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

type updateEventRequest struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	StartAt         time.Time   `json:"start_at"`
	EndAt           time.Time   `json:"end_at"`
	Timezone        string      `json:"timezone"`
	IsAllDay        bool        `json:"is_all_day"`
	RRule           string      `json:"rrule"`
	ExDates         []time.Time `json:"exdates"`
	RDates          []time.Time `json:"rdates"`
	Location        string      `json:"location"`
	ReminderMinutes []int       `json:"reminder_minutes"`
	Color           string      `json:"color"`
}

// updateEvent replaces the event's mutable fields with the request body.
// Like create, a rule the engine cannot parse is rejected rather than
// stored.
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request, event *models.Event) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.StartAt.IsZero() {
		writeError(w, http.StatusBadRequest, "start_at is required")
		return
	}
	if !req.EndAt.After(req.StartAt) {
		writeError(w, http.StatusBadRequest, "end_at must be after start_at")
		return
	}
	if req.RRule != "" {
		if _, err := rrule.Parse(req.RRule, req.StartAt); err != nil {
			writeError(w, http.StatusBadRequest, "invalid rrule")
			return
		}
	}
	if req.Timezone == "" {
		req.Timezone = event.Timezone
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartAt = req.StartAt.UTC()
	event.EndAt = req.EndAt.UTC()
	event.Timezone = req.Timezone
	event.IsAllDay = req.IsAllDay
	event.RRule = req.RRule
	event.ExDates = req.ExDates
	event.RDates = req.RDates
	event.Location = req.Location
	event.ReminderMinutes = req.ReminderMinutes
	event.Color = req.Color

	if err := s.events.Update(r.Context(), event); err != nil {
		log.Printf("server: updating event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// addEventDate appends one instant to the event's exdate or rdate set.
// Nothing stored is re-expanded; the next window query sees the change.
func (s *Server) addEventDate(w http.ResponseWriter, r *http.Request, event *models.Event, add func(context.Context, uuid.UUID, time.Time) error) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		At time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.At.IsZero() {
		writeError(w, http.StatusBadRequest, "at is required (RFC 3339)")
		return
	}
	if err := add(r.Context(), event.ID, req.At.UTC()); err != nil {
		log.Printf("server: adding date to event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
