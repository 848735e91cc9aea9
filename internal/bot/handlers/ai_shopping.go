package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

func (h *Handlers) aiAddShopping(ctx context.Context, household *models.Household, userID int64, params map[string]string) string {
	name := strings.TrimSpace(params["name"])
	if name == "" {
		return "What should I put on the shopping list?"
	}

	item := &models.ShoppingItem{
		HouseholdID: household.ID,
		Name:        name,
		Quantity:    strings.TrimSpace(params["quantity"]),
		AddedBy:     userID,
	}
	if err := h.repos.Shopping.Add(ctx, item); err != nil {
		log.Printf("bot: adding shopping item for household %s: %v", household.ID, err)
		return "Could not add the item, please try again later."
	}
	return fmt.Sprintf("🛒 Added %s to the list.", name)
}

func (h *Handlers) aiListShopping(ctx context.Context, household *models.Household) string {
	items, err := h.repos.Shopping.GetOpen(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing shopping for household %s: %v", household.ID, err)
		return "Could not load the shopping list, please try again later."
	}
	if len(items) == 0 {
		return "🛒 The shopping list is empty."
	}

	var sb strings.Builder
	sb.WriteString("🛒 Shopping list\n\n")
	for _, item := range items {
		sb.WriteString(format.ShoppingItem(*item) + "\n")
	}
	return sb.String()
}

func (h *Handlers) aiBuyShopping(ctx context.Context, household *models.Household, params map[string]string) string {
	items, err := h.repos.Shopping.GetOpen(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing shopping for household %s: %v", household.ID, err)
		return "Could not load the shopping list, please try again later."
	}

	var target *models.ShoppingItem
	if idRaw := params["id"]; idRaw != "" {
		id, err := strconv.Atoi(idRaw)
		if err != nil {
			return "I could not work out which item you meant."
		}
		for _, item := range items {
			if item.ItemID == id {
				target = item
				break
			}
		}
	} else if name := strings.ToLower(strings.TrimSpace(params["name"])); name != "" {
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), name) {
				target = item
				break
			}
		}
	}
	if target == nil {
		return "I could not find that on the open list."
	}

	if err := h.repos.Shopping.MarkBought(ctx, target.ItemID, time.Now().UTC()); err != nil {
		log.Printf("bot: marking shopping item %d bought: %v", target.ItemID, err)
		return "Could not update the list, please try again later."
	}
	return fmt.Sprintf("✅ Got %s.", target.Name)
}
