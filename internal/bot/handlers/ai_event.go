package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) aiAddEvent(ctx context.Context, household *models.Household, userID int64, params map[string]string) string {
	title := strings.TrimSpace(params["title"])
	if title == "" {
		return "What should I call the event?"
	}

	zone := h.householdZone(ctx, household)
	now := time.Now().UTC()

	startRaw := params["start_time"]
	if startRaw == "" {
		return fmt.Sprintf("When does \"%s\" start?", title)
	}
	startAt, err := parseLocalTime(startRaw, zone, now)
	if err != nil {
		return fmt.Sprintf("I could not read the start time %q, sorry.", startRaw)
	}

	endAt := startAt.Add(time.Hour)
	if endRaw := params["end_time"]; endRaw != "" {
		if parsed, err := parseLocalTime(endRaw, zone, now); err == nil && parsed.After(startAt) {
			endAt = parsed
		}
	}

	note := ""
	rule := strings.TrimSpace(params["rrule"])
	if rule != "" {
		if _, err := rrule.Parse(rule, startAt); err != nil {
			log.Printf("bot: dropping bad recurrence %q from parsed intent: %v", rule, err)
			note = "\nI could not make sense of the repeat pattern, so I saved it as a one-off."
			rule = ""
		}
	}

	event := &models.Event{
		ID:              uuid.New(),
		HouseholdID:     household.ID,
		Title:           title,
		Description:     params["description"],
		Location:        params["location"],
		StartAt:         startAt,
		EndAt:           endAt,
		RRule:           rule,
		Timezone:        zone,
		ReminderMinutes: []int{30},
		CreatedBy:       userID,
	}
	if err := h.repos.Event.Create(ctx, event); err != nil {
		log.Printf("bot: creating event for household %s: %v", household.ID, err)
		return "Could not add the event, please try again later."
	}

	h.notifyScheduler()
	local := timezone.In(startAt, zone)
	reply := fmt.Sprintf("📅 Event added\n%s at %s %s", title, format.Day(local), format.Clock(local))
	if rule != "" {
		reply += ", " + strings.ToLower(rrule.Describe(rule))
	}
	return reply + note
}

func (h *Handlers) aiListEvents(ctx context.Context, household *models.Household, params map[string]string) string {
	events, err := h.repos.Event.GetByHousehold(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing events for household %s: %v", household.ID, err)
		return "Could not load the events, please try again later."
	}

	keyword := strings.ToLower(strings.TrimSpace(params["keyword"]))
	zone := h.householdZone(ctx, household)

	var sb strings.Builder
	matched := 0
	for i, event := range events {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(event.Title), keyword) &&
			!strings.Contains(strings.ToLower(event.Description), keyword) {
			continue
		}
		matched++
		local := timezone.In(event.StartAt, zone)
		sb.WriteString(fmt.Sprintf("%d. %s - %s %s", i+1, event.Title, format.Day(local), format.Clock(local)))
		if event.IsRecurring() {
			sb.WriteString(", " + strings.ToLower(rrule.Describe(event.RRule)))
		}
		sb.WriteString("\n")
	}
	if matched == 0 {
		if keyword != "" {
			return fmt.Sprintf("📅 Nothing matching %q.", keyword)
		}
		return "📅 No events yet. Just tell me about one and I'll add it."
	}
	return "📅 Events\n\n" + sb.String()
}

func (h *Handlers) aiDeleteEvent(ctx context.Context, household *models.Household, params map[string]string) string {
	events, err := h.repos.Event.GetByHousehold(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing events for household %s: %v", household.ID, err)
		return "Could not load the events, please try again later."
	}

	var target *models.Event
	if idRaw := params["id"]; idRaw != "" {
		n, err := strconv.Atoi(idRaw)
		if err != nil || n < 1 || n > len(events) {
			return "I could not find that event, check the numbers with /events."
		}
		target = events[n-1]
	} else if keyword := strings.ToLower(strings.TrimSpace(params["keyword"])); keyword != "" {
		for _, event := range events {
			if strings.Contains(strings.ToLower(event.Title), keyword) {
				if target != nil {
					return fmt.Sprintf("More than one event matches %q, pick a number from /events.", keyword)
				}
				target = event
			}
		}
	}
	if target == nil {
		return "Which event should I delete? You can check the numbers with /events."
	}

	if err := h.repos.Event.Delete(ctx, target.ID); err != nil {
		log.Printf("bot: deleting event %s: %v", target.ID, err)
		return "Could not delete the event, please try again later."
	}
	return fmt.Sprintf("🗑 Deleted \"%s\".", target.Title)
}
