package server

import (
	"net/http"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/templates"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

type templatesResponse struct {
	Templates []templates.Template `json:"templates"`
}

type suggestResponse struct {
	Templates []templates.Template `json:"templates"`
	At        time.Time            `json:"at"`
}

type describeResponse struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var list []templates.Template
	if category := r.URL.Query().Get("category"); category != "" {
		list = templates.ByCategory(category)
	} else {
		list = templates.All()
	}
	if list == nil {
		list = []templates.Template{}
	}
	writeJSON(w, http.StatusOK, templatesResponse{Templates: list})
}

// handleTemplateSuggest suggests templates for a moment in local wall-clock
// time. The at parameter is RFC 3339 and keeps its offset; without one the
// current time in the configured default zone is used.
func (s *Server) handleTemplateSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()

	var at time.Time
	if raw := q.Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid at: must be RFC 3339")
			return
		}
		at = parsed
	} else {
		at = timezone.In(time.Now().UTC(), s.defaultTZ)
	}
	if zone := q.Get("tz"); zone != "" {
		at = timezone.In(at, zone)
	}

	list := templates.Suggest(at)
	if list == nil {
		list = []templates.Template{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Templates: list, At: at})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rule := r.URL.Query().Get("rule")
	if rule == "" {
		writeError(w, http.StatusBadRequest, "rule is required")
		return
	}
	writeJSON(w, http.StatusOK, describeResponse{Rule: rule, Text: rrule.Describe(rule)})
}
