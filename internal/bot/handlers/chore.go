package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) handleChoreAdd(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /chore <title> [time]\nFor example: /chore Take out the bins 19:00")
		return
	}

	zone := h.householdZone(ctx, household)
	title := args
	var dueAt *time.Time
	if t, at, ok := splitTitleAndTime(args, zone, time.Now().UTC()); ok {
		title = t
		dueAt = &at
	}

	chore := &models.Chore{
		HouseholdID: household.ID,
		Title:       title,
		DueAt:       dueAt,
	}
	if err := h.repos.Chore.Create(ctx, chore); err != nil {
		log.Printf("bot: creating chore for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not add the chore, please try again later.")
		return
	}

	h.notifyScheduler()
	reply := fmt.Sprintf("🧹 Chore #%d added: %s", chore.ChoreID, title)
	if dueAt != nil {
		local := timezone.In(*dueAt, zone)
		reply += fmt.Sprintf("\nDue %s %s", format.Day(local), format.Clock(local))
	}
	h.sendMessage(msg.Chat.ID, reply)
}

func (h *Handlers) handleChoreList(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	chores, err := h.repos.Chore.GetActive(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing chores for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the chores, please try again later.")
		return
	}
	if len(chores) == 0 {
		h.sendMessage(msg.Chat.ID, "🧹 Nothing to do, the chore list is empty!")
		return
	}

	zone := h.householdZone(ctx, household)
	var sb strings.Builder
	sb.WriteString("🧹 Chores\n\n")
	for _, chore := range chores {
		sb.WriteString(format.Chore(*chore, zone) + "\n")
	}
	sb.WriteString("\nMark one done with /done <number>.")
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleChoreDone(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	id, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /done <number> (see /chores for the numbers)")
		return
	}

	reply, err := h.completeChore(ctx, household, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("No chore #%d here.", id))
		} else {
			log.Printf("bot: completing chore %d: %v", id, err)
			h.sendMessage(msg.Chat.ID, "Could not update the chore, please try again later.")
		}
		return
	}
	h.sendMessage(msg.Chat.ID, reply)
}

// completeChore marks a chore done and, for recurring chores, rolls the due
// date forward to the next instant the rule produces.
func (h *Handlers) completeChore(ctx context.Context, household *models.Household, id int) (string, error) {
	chore, err := h.repos.Chore.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if chore.HouseholdID != household.ID {
		return "", pgx.ErrNoRows
	}

	now := time.Now().UTC()
	if err := h.repos.Chore.Complete(ctx, id, now); err != nil {
		return "", err
	}

	if chore.IsRecurring() && chore.DueAt != nil {
		next, err := rrule.Next(chore.RRule, *chore.DueAt, now)
		if err != nil {
			log.Printf("bot: advancing chore %d rule %q: %v", id, chore.RRule, err)
		} else if next != nil {
			if err := h.repos.Chore.Reschedule(ctx, id, *next); err != nil {
				return "", err
			}
			h.notifyScheduler()
			zone := h.householdZone(ctx, household)
			local := timezone.In(*next, zone)
			return fmt.Sprintf("✅ Done! \"%s\" comes back %s %s.",
				chore.Title, format.Day(local), format.Clock(local)), nil
		}
	}

	return fmt.Sprintf("✅ Done! \"%s\" is off the list.", chore.Title), nil
}
