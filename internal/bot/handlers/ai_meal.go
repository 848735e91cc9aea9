package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) aiPlanMeal(ctx context.Context, household *models.Household, userID int64, params map[string]string) string {
	recipe := strings.TrimSpace(params["recipe"])
	if recipe == "" {
		recipe = strings.TrimSpace(params["title"])
	}
	if recipe == "" {
		return "What's on the menu?"
	}

	zone := h.householdZone(ctx, household)
	now := time.Now().UTC()

	dayRaw := params["date"]
	if dayRaw == "" {
		dayRaw = "today"
	}
	day, ok := parseDayArg(dayRaw, zone, now)
	if !ok {
		return fmt.Sprintf("I could not read the day %q, try something like tomorrow or 2025-09-03.", dayRaw)
	}

	slot, ok := parseSlotArg(params["slot"])
	if !ok {
		slot = models.MealDinner
	}

	meal := &models.MealPlan{
		HouseholdID: household.ID,
		Date:        day,
		Slot:        slot,
		Recipe:      recipe,
	}
	if err := h.repos.Meal.Upsert(ctx, meal); err != nil {
		log.Printf("bot: planning meal for household %s: %v", household.ID, err)
		return "Could not save the meal plan, please try again later."
	}
	return fmt.Sprintf("🍽 %s %s: %s", format.Day(day), slot, recipe)
}

func (h *Handlers) aiListMeals(ctx context.Context, household *models.Household) string {
	zone := h.householdZone(ctx, household)
	nowLocal := timezone.FromUTC(time.Now().UTC(), zone)
	weekStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	meals, err := h.repos.Meal.GetWeek(ctx, household.ID, weekStart)
	if err != nil {
		log.Printf("bot: listing meals for household %s: %v", household.ID, err)
		return "Could not load the meal plan, please try again later."
	}
	if len(meals) == 0 {
		return "🍽 Nothing planned this week. Add something with /meal."
	}

	var sb strings.Builder
	sb.WriteString("🍽 This week\n\n")
	for _, meal := range meals {
		sb.WriteString(format.Meal(*meal) + "\n")
	}
	return sb.String()
}
