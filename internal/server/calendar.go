package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/calendar"
	"github.com/slipperyrat/home-management-app-sub004/internal/ical"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

type calendarResponse struct {
	Occurrences []models.Occurrence `json:"occurrences"`
	From        time.Time           `json:"from"`
	To          time.Time           `json:"to"`
	Timezone    string              `json:"timezone"`
}

type conflictsResponse struct {
	Conflicts []models.ConflictPair `json:"conflicts"`
	From      time.Time             `json:"from"`
	To        time.Time             `json:"to"`
	Timezone  string                `json:"timezone"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	household, ok := s.householdFromRequest(w, r)
	if !ok {
		return
	}
	from, to, err := parseWindow(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	occurrences, err := s.expandWindow(r, household, from, to)
	if err != nil {
		log.Printf("server: expanding calendar for household %s: %v", household.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}

	zone := displayZone(r.URL.Query(), household)
	for i := range occurrences {
		shiftOccurrence(&occurrences[i], zone)
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		Occurrences: occurrences,
		From:        from,
		To:          to,
		Timezone:    zone,
	})
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	household, ok := s.householdFromRequest(w, r)
	if !ok {
		return
	}
	from, to, err := parseWindow(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	occurrences, err := s.expandWindow(r, household, from, to)
	if err != nil {
		log.Printf("server: expanding conflicts for household %s: %v", household.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}

	pairs := calendar.FindConflicts(occurrences)
	zone := displayZone(r.URL.Query(), household)
	for i := range pairs {
		shiftOccurrence(&pairs[i].A, zone)
		shiftOccurrence(&pairs[i].B, zone)
	}
	if pairs == nil {
		pairs = []models.ConflictPair{}
	}
	writeJSON(w, http.StatusOK, conflictsResponse{
		Conflicts: pairs,
		From:      from,
		To:        to,
		Timezone:  zone,
	})
}

func (s *Server) handleICSFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	household, ok := s.householdFromRequest(w, r)
	if !ok {
		return
	}

	// Feed readers poll without parameters, so default to a rolling window
	// around now when none is given.
	q := r.URL.Query()
	var from, to time.Time
	if q.Get("from") == "" && q.Get("to") == "" {
		now := time.Now().UTC()
		from = now.AddDate(0, 0, -7)
		to = now.AddDate(0, 3, 0)
	} else {
		var err error
		from, to, err = parseWindow(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	occurrences, err := s.expandWindow(r, household, from, to)
	if err != nil {
		log.Printf("server: expanding feed for household %s: %v", household.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar feed")
		return
	}

	feed := ical.Build(household.Name, occurrences, time.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=calendar.ics`)
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Printf("server: writing calendar feed: %v", err)
	}
}

// expandWindow loads the household's events and runs them through the
// expansion engine. Instants come back in UTC, sorted by start.
func (s *Server) expandWindow(r *http.Request, household *models.Household, from, to time.Time) ([]models.Occurrence, error) {
	stored, err := s.events.GetForWindow(r.Context(), household.ID, from, to)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(stored))
	for _, e := range stored {
		events = append(events, *e)
	}
	occurrences := calendar.ExpandAll(events, from, to)
	calendar.SortByStart(occurrences)
	if occurrences == nil {
		occurrences = []models.Occurrence{}
	}
	return occurrences, nil
}

func parseWindow(q url.Values) (time.Time, time.Time, error) {
	fromRaw := q.Get("from")
	toRaw := q.Get("to")
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, errors.New("from and to are required (RFC 3339)")
	}
	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %v", err)
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %v", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not be before from")
	}
	return from.UTC(), to.UTC(), nil
}

// displayZone picks the zone occurrences are rendered in: the tz query
// parameter when present, otherwise the household's own zone.
func displayZone(q url.Values, household *models.Household) string {
	if zone := q.Get("tz"); zone != "" {
		return zone
	}
	return household.Timezone
}

// shiftOccurrence re-labels the instants into the display zone. The moment
// in time is unchanged.
func shiftOccurrence(o *models.Occurrence, zone string) {
	o.StartAt = timezone.In(o.StartAt, zone)
	o.EndAt = timezone.In(o.EndAt, zone)
}
