package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

// handleShop adds an item when arguments are given, otherwise shows the
// open list.
func (h *Handlers) handleShop(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.showShoppingList(ctx, msg.Chat.ID, household)
		return
	}

	// An optional leading count becomes the quantity: "/shop 2 milk".
	name := args
	quantity := ""
	fields := strings.Fields(args)
	if len(fields) > 1 {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			quantity = fields[0]
			name = strings.Join(fields[1:], " ")
		}
	}

	item := &models.ShoppingItem{
		HouseholdID: household.ID,
		Name:        name,
		Quantity:    quantity,
		AddedBy:     msg.From.ID,
	}
	if err := h.repos.Shopping.Add(ctx, item); err != nil {
		log.Printf("bot: adding shopping item for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not add the item, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🛒 Added %s to the list.", name))
}

func (h *Handlers) showShoppingList(ctx context.Context, chatID int64, household *models.Household) {
	items, err := h.repos.Shopping.GetOpen(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing shopping for household %s: %v", household.ID, err)
		h.sendMessage(chatID, "Could not load the shopping list, please try again later.")
		return
	}
	if len(items) == 0 {
		h.sendMessage(chatID, "🛒 The shopping list is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛒 Shopping list\n\n")
	for _, item := range items {
		sb.WriteString(format.ShoppingItem(*item) + "\n")
	}
	sb.WriteString("\nTick one off with /bought <number>, or /bought all to clear.")
	h.sendMessage(chatID, sb.String())
}

func (h *Handlers) handleBought(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /bought <number>, or /bought all")
		return
	}

	if strings.EqualFold(args, "all") {
		n, err := h.repos.Shopping.ClearBought(ctx, household.ID)
		if err != nil {
			log.Printf("bot: clearing shopping for household %s: %v", household.ID, err)
			h.sendMessage(msg.Chat.ID, "Could not clear the list, please try again later.")
			return
		}
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("🛒 Cleared %d bought item(s).", n))
		return
	}

	id, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /bought <number> (see /shop for the numbers)")
		return
	}

	// Keep ticks inside the household's own list.
	items, err := h.repos.Shopping.GetOpen(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing shopping for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the shopping list, please try again later.")
		return
	}
	var target *models.ShoppingItem
	for _, item := range items {
		if item.ItemID == id {
			target = item
			break
		}
	}
	if target == nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("No open item #%d on the list.", id))
		return
	}

	if err := h.repos.Shopping.MarkBought(ctx, id, time.Now().UTC()); err != nil {
		log.Printf("bot: marking shopping item %d bought: %v", id, err)
		h.sendMessage(msg.Chat.ID, "Could not update the list, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Got %s.", target.Name))
}
