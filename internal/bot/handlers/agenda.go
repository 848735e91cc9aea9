package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/calendar"
	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

const defaultAgendaDays = 7

func (h *Handlers) handleAgenda(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	days := parseDaysArg(msg.CommandArguments(), defaultAgendaDays)

	text, err := h.agendaText(ctx, household, days)
	if err != nil {
		log.Printf("bot: expanding agenda for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the agenda, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleConflicts(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	days := parseDaysArg(msg.CommandArguments(), defaultAgendaDays)

	text, err := h.conflictsText(ctx, household, days)
	if err != nil {
		log.Printf("bot: expanding conflicts for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not check for conflicts, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) agendaText(ctx context.Context, household *models.Household, days int) (string, error) {
	now := time.Now().UTC()
	occurrences, err := h.expandHouseholdWindow(ctx, household, now, now.AddDate(0, 0, days))
	if err != nil {
		return "", err
	}
	zone := h.householdZone(ctx, household)
	return fmt.Sprintf("📅 Next %d days\n\n%s", days, format.Agenda(occurrences, zone)), nil
}

func (h *Handlers) conflictsText(ctx context.Context, household *models.Household, days int) (string, error) {
	now := time.Now().UTC()
	occurrences, err := h.expandHouseholdWindow(ctx, household, now, now.AddDate(0, 0, days))
	if err != nil {
		return "", err
	}

	pairs := calendar.FindConflicts(occurrences)
	if len(pairs) == 0 {
		return fmt.Sprintf("✅ No clashes in the next %d days.", days), nil
	}

	zone := h.householdZone(ctx, household)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ %d clash(es) in the next %d days\n\n", len(pairs), days))
	for _, pair := range pairs {
		sb.WriteString("• " + format.Conflict(pair, zone) + "\n")
	}
	return sb.String(), nil
}

// expandHouseholdWindow loads the household's events and expands them into
// concrete occurrences for the window, sorted by start.
func (h *Handlers) expandHouseholdWindow(ctx context.Context, household *models.Household, from, to time.Time) ([]models.Occurrence, error) {
	stored, err := h.repos.Event.GetForWindow(ctx, household.ID, from, to)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(stored))
	for _, e := range stored {
		events = append(events, *e)
	}
	occurrences := calendar.ExpandAll(events, from, to)
	calendar.SortByStart(occurrences)
	return occurrences, nil
}

func parseDaysArg(args string, def int) int {
	args = strings.TrimSpace(args)
	if args == "" {
		return def
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 {
		return def
	}
	if n > 90 {
		return 90
	}
	return n
}
