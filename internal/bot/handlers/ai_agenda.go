package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

func (h *Handlers) aiShowAgenda(ctx context.Context, household *models.Household, params map[string]string) string {
	days := aiDaysParam(params, defaultAgendaDays)
	text, err := h.agendaText(ctx, household, days)
	if err != nil {
		log.Printf("bot: expanding agenda for household %s: %v", household.ID, err)
		return "Could not load the agenda, please try again later."
	}
	return text
}

func (h *Handlers) aiShowConflicts(ctx context.Context, household *models.Household, params map[string]string) string {
	days := aiDaysParam(params, defaultAgendaDays)
	text, err := h.conflictsText(ctx, household, days)
	if err != nil {
		log.Printf("bot: expanding conflicts for household %s: %v", household.ID, err)
		return "Could not check for conflicts, please try again later."
	}
	return text
}

func aiDaysParam(params map[string]string, def int) int {
	raw := params["days"]
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > 90 {
		return 90
	}
	return n
}
