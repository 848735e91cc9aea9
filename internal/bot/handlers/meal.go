package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) handleMealPlan(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	fields := strings.Fields(strings.TrimSpace(msg.CommandArguments()))
	if len(fields) < 3 {
		h.sendMessage(msg.Chat.ID, "Usage: /meal <day> <slot> <recipe>\nFor example: /meal tomorrow dinner Spaghetti bolognese")
		return
	}

	zone := h.householdZone(ctx, household)
	day, ok := parseDayArg(fields[0], zone, time.Now().UTC())
	if !ok {
		h.sendMessage(msg.Chat.ID, "I know days like today, tomorrow, monday or 2025-09-03.")
		return
	}
	slot, ok := parseSlotArg(fields[1])
	if !ok {
		h.sendMessage(msg.Chat.ID, "The slot should be breakfast, lunch or dinner.")
		return
	}
	recipe := strings.Join(fields[2:], " ")

	meal := &models.MealPlan{
		HouseholdID: household.ID,
		Date:        day,
		Slot:        slot,
		Recipe:      recipe,
	}
	if err := h.repos.Meal.Upsert(ctx, meal); err != nil {
		log.Printf("bot: planning meal for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not save the meal plan, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🍽 %s %s: %s", format.Day(day), slot, recipe))
}

func (h *Handlers) handleMealList(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	zone := h.householdZone(ctx, household)
	nowLocal := timezone.FromUTC(time.Now().UTC(), zone)
	weekStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	meals, err := h.repos.Meal.GetWeek(ctx, household.ID, weekStart)
	if err != nil {
		log.Printf("bot: listing meals for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the meal plan, please try again later.")
		return
	}
	if len(meals) == 0 {
		h.sendMessage(msg.Chat.ID, "🍽 Nothing planned this week. Add something with /meal.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🍽 This week\n\n")
	for _, meal := range meals {
		sb.WriteString(format.Meal(*meal) + "\n")
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

// parseDayArg resolves a day word or date to midnight (UTC-labelled) of
// that household-local day.
func parseDayArg(raw, zone string, now time.Time) (time.Time, bool) {
	nowLocal := timezone.FromUTC(now, zone)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(raw) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}

	// Weekday names mean the next such day, today included.
	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
		"mon":    time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
		"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday, "sun": time.Sunday,
	}
	if wd, ok := weekdays[strings.ToLower(raw)]; ok {
		day := today
		for day.Weekday() != wd {
			day = day.AddDate(0, 0, 1)
		}
		return day, true
	}

	return time.Time{}, false
}

func parseSlotArg(raw string) (models.MealSlot, bool) {
	switch strings.ToLower(raw) {
	case "breakfast":
		return models.MealBreakfast, true
	case "lunch":
		return models.MealLunch, true
	case "dinner", "tea":
		return models.MealDinner, true
	}
	return "", false
}
