package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) handleEventAdd(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /event <title> <time>\nFor example: /event Dentist 2025-09-03 14:30 or /event Plumber 09:00")
		return
	}

	zone := h.householdZone(ctx, household)
	title, startAt, ok := splitTitleAndTime(args, zone, time.Now().UTC())
	if !ok {
		h.sendMessage(msg.Chat.ID, "I need a time for the event, like 15:30 or 2025-09-03 14:30.")
		return
	}

	event := &models.Event{
		ID:              uuid.New(),
		HouseholdID:     household.ID,
		Title:           title,
		StartAt:         startAt,
		EndAt:           startAt.Add(time.Hour),
		Timezone:        zone,
		ReminderMinutes: []int{30},
		CreatedBy:       msg.From.ID,
	}
	if err := h.repos.Event.Create(ctx, event); err != nil {
		log.Printf("bot: creating event for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not add the event, please try again later.")
		return
	}

	h.notifyScheduler()
	local := timezone.In(startAt, zone)
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("📅 Event added\n%s at %s %s",
		title, format.Day(local), format.Clock(local)))
}

func (h *Handlers) handleEventList(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	events, err := h.repos.Event.GetByHousehold(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing events for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the events, please try again later.")
		return
	}
	if len(events) == 0 {
		h.sendMessage(msg.Chat.ID, "📅 No events yet. Add one with /event or just tell me about it.")
		return
	}

	zone := h.householdZone(ctx, household)
	var sb strings.Builder
	sb.WriteString("📅 Events\n\n")
	for i, event := range events {
		local := timezone.In(event.StartAt, zone)
		sb.WriteString(fmt.Sprintf("%d. %s - %s %s", i+1, event.Title, format.Day(local), format.Clock(local)))
		if event.IsRecurring() {
			sb.WriteString(", " + strings.ToLower(rrule.Describe(event.RRule)))
		}
		if event.Location != "" {
			sb.WriteString(" @ " + event.Location)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nDelete one with /delevent <number>.")
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleEventDelete(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	n, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /delevent <number> (see /events for the numbers)")
		return
	}

	events, err := h.repos.Event.GetByHousehold(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing events for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the events, please try again later.")
		return
	}
	if n < 1 || n > len(events) {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("There are %d events, pick a number from /events.", len(events)))
		return
	}

	event := events[n-1]
	if err := h.repos.Event.Delete(ctx, event.ID); err != nil {
		log.Printf("bot: deleting event %s: %v", event.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not delete the event, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑 Deleted \"%s\".", event.Title))
}

// splitTitleAndTime peels a trailing time off command arguments. It tries
// "YYYY-MM-DD HH:MM" over the last two fields, then "HH:MM" or "YYYY-MM-DD"
// over the last one. Returns the remaining fields as the title.
func splitTitleAndTime(args, zone string, now time.Time) (string, time.Time, bool) {
	fields := strings.Fields(args)

	if len(fields) >= 3 {
		candidate := fields[len(fields)-2] + " " + fields[len(fields)-1]
		if at, err := parseLocalTime(candidate, zone, now); err == nil {
			return strings.Join(fields[:len(fields)-2], " "), at, true
		}
	}
	if len(fields) >= 2 {
		if at, err := parseLocalTime(fields[len(fields)-1], zone, now); err == nil {
			return strings.Join(fields[:len(fields)-1], " "), at, true
		}
	}
	return "", time.Time{}, false
}

// parseLocalTime reads a wall-clock time in the household zone and returns
// the UTC instant. A bare "HH:MM" means today, or tomorrow if that moment
// has already passed.
func parseLocalTime(raw, zone string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse("2006-01-02 15:04", raw); err == nil {
		return timezone.ToUTC(t, zone), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return timezone.ToUTC(t, zone), nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, err
	}

	nowLocal := timezone.FromUTC(now, zone)
	local := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC)
	at := timezone.ToUTC(local, zone)
	if at.Before(now) {
		at = at.Add(24 * time.Hour)
	}
	return at, nil
}
