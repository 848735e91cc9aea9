package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) aiAddChore(ctx context.Context, household *models.Household, userID int64, params map[string]string) string {
	title := strings.TrimSpace(params["title"])
	if title == "" {
		return "What's the chore?"
	}

	zone := h.householdZone(ctx, household)
	now := time.Now().UTC()

	var dueAt *time.Time
	if dueRaw := params["due_time"]; dueRaw != "" {
		parsed, err := parseLocalTime(dueRaw, zone, now)
		if err != nil {
			return fmt.Sprintf("I could not read the due time %q, sorry.", dueRaw)
		}
		dueAt = &parsed
	}

	rule := strings.TrimSpace(params["rrule"])
	if rule != "" {
		if _, err := rrule.Parse(rule, now); err != nil {
			log.Printf("bot: dropping bad recurrence %q from parsed intent: %v", rule, err)
			rule = ""
		}
	}
	if rule != "" && dueAt == nil {
		// A repeat needs an anchor to advance from.
		anchor := now.Add(24 * time.Hour)
		dueAt = &anchor
	}

	chore := &models.Chore{
		HouseholdID: household.ID,
		Title:       title,
		Description: params["description"],
		DueAt:       dueAt,
		RRule:       rule,
	}
	if err := h.repos.Chore.Create(ctx, chore); err != nil {
		log.Printf("bot: creating chore for household %s: %v", household.ID, err)
		return "Could not add the chore, please try again later."
	}

	h.notifyScheduler()
	reply := fmt.Sprintf("🧹 Chore #%d added: %s", chore.ChoreID, title)
	if dueAt != nil {
		local := timezone.In(*dueAt, zone)
		reply += fmt.Sprintf("\nDue %s %s", format.Day(local), format.Clock(local))
	}
	if rule != "" {
		reply += ", " + strings.ToLower(rrule.Describe(rule))
	}
	return reply
}

func (h *Handlers) aiListChores(ctx context.Context, household *models.Household) string {
	chores, err := h.repos.Chore.GetActive(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing chores for household %s: %v", household.ID, err)
		return "Could not load the chores, please try again later."
	}
	if len(chores) == 0 {
		return "🧹 Nothing to do, the chore list is empty!"
	}

	zone := h.householdZone(ctx, household)
	var sb strings.Builder
	sb.WriteString("🧹 Chores\n\n")
	for _, chore := range chores {
		sb.WriteString(format.Chore(*chore, zone) + "\n")
	}
	return sb.String()
}

func (h *Handlers) aiCompleteChore(ctx context.Context, household *models.Household, params map[string]string) string {
	id, err := strconv.Atoi(params["id"])
	if err != nil {
		return "Which chore number is done? Check /chores for the numbers."
	}

	reply, err := h.completeChore(ctx, household, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Sprintf("No chore #%d here.", id)
		}
		log.Printf("bot: completing chore %d: %v", id, err)
		return "Could not update the chore, please try again later."
	}
	return reply
}
