package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/ai"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

const (
	sessionTimeout      = 5 * time.Minute
	confirmationTimeout = 2 * time.Minute
	maxHistoryLen       = 10
)

type pendingConfirmation struct {
	intent    *ai.Intent
	household *models.Household
	createdAt time.Time
}

type conversationSession struct {
	history   []ai.Message
	updatedAt time.Time
}

var (
	pendingConfirmations = make(map[int64]*pendingConfirmation)
	confirmationsMu      sync.RWMutex

	conversationSessions = make(map[int64]*conversationSession)
	sessionsMu           sync.RWMutex
)

// handleAIMessage runs a free-form message through intent parsing and
// dispatches the result. Multi-turn state is kept per user.
func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	if h.ai == nil {
		h.sendMessage(msg.Chat.ID, "AI features are not configured. Use /help to see the available commands.")
		return
	}

	userID := msg.From.ID
	history := getHistory(userID)
	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: "user", Content: msg.Text})

	intent, err := h.ai.ParseIntentWithHistory(ctx, messages)
	if err != nil {
		log.Printf("bot: parsing intent for user %d: %v", userID, err)
		h.sendMessage(msg.Chat.ID, "I could not work out what you meant, sorry. Try /help for the command list.")
		return
	}

	appendHistory(userID, "user", msg.Text)

	if intent.Confidence < 0.5 {
		reply := intent.AIMessage
		if reply == "" {
			reply = "I'm not sure what you meant. Could you rephrase that?"
		}
		appendHistory(userID, "assistant", reply)
		h.sendMessage(msg.Chat.ID, reply)
		return
	}

	if intent.NeedMoreInfo {
		prompt := intent.FollowUpPrompt
		if prompt == "" {
			prompt = "Could you give me a bit more detail?"
		}
		appendHistory(userID, "assistant", prompt)
		h.sendMessage(msg.Chat.ID, prompt)
		return
	}

	if intent.NeedsConfirmation {
		h.requestConfirmation(msg.Chat.ID, userID, household, intent)
		return
	}

	result := h.executeIntent(ctx, userID, household, intent)
	appendHistory(userID, "assistant", result)
	h.sendMessage(msg.Chat.ID, result)
}

// requestConfirmation parks the intent and asks before acting on it.
func (h *Handlers) requestConfirmation(chatID, userID int64, household *models.Household, intent *ai.Intent) {
	confirmationsMu.Lock()
	pendingConfirmations[userID] = &pendingConfirmation{
		intent:    intent,
		household: household,
		createdAt: time.Now(),
	}
	confirmationsMu.Unlock()

	question := intent.ConfirmationReason
	if question == "" {
		question = "Should I go ahead?"
	}

	reply := tgbotapi.NewMessage(chatID, "⚠️ "+question)
	reply.ReplyMarkup = confirmationKeyboard(userID)
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("bot: sending confirmation to chat %d: %v", chatID, err)
	}
}

func confirmationKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", fmt.Sprintf("confirm:%d", userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", fmt.Sprintf("cancel:%d", userID)),
		),
	)
}

// confirmationKey splits confirm/cancel button data into the verb and the
// user the question was addressed to.
func confirmationKey(data string) (action string, userID int64, ok bool) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], id, true
}

// HandleCallbackQuery resolves the confirm/cancel buttons. The button data
// names the user who was asked; in a shared chat everyone sees the buttons,
// so taps from anyone else are rejected without touching the pending state.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action, userID, ok := confirmationKey(query.Data)
	if !ok {
		h.answerCallback(query.ID, "")
		return
	}
	if query.From.ID != userID {
		h.answerCallbackWithAlert(query.ID, "That question is for someone else.")
		return
	}

	confirmationsMu.Lock()
	pending, ok := pendingConfirmations[userID]
	delete(pendingConfirmations, userID)
	confirmationsMu.Unlock()

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	if !ok || time.Since(pending.createdAt) > confirmationTimeout {
		h.answerCallback(query.ID, "")
		h.editMessageText(chatID, messageID, "That request has expired, please ask again.")
		return
	}

	switch action {
	case "confirm":
		h.answerCallback(query.ID, "On it")
		result := h.executeIntent(ctx, userID, pending.household, pending.intent)
		appendHistory(userID, "assistant", result)
		h.editMessageText(chatID, messageID, result)
	case "cancel":
		h.answerCallback(query.ID, "Cancelled")
		h.editMessageText(chatID, messageID, "Cancelled, nothing was changed.")
	default:
		h.answerCallback(query.ID, "")
	}
}

// executeIntent maps a parsed intent onto the same operations the slash
// commands use and returns the reply text.
func (h *Handlers) executeIntent(ctx context.Context, userID int64, household *models.Household, intent *ai.Intent) string {
	switch intent.Action {
	case "add_event":
		return h.aiAddEvent(ctx, household, userID, intent.Parameters)
	case "list_events":
		return h.aiListEvents(ctx, household, intent.Parameters)
	case "delete_event":
		return h.aiDeleteEvent(ctx, household, intent.Parameters)
	case "show_agenda":
		return h.aiShowAgenda(ctx, household, intent.Parameters)
	case "show_conflicts":
		return h.aiShowConflicts(ctx, household, intent.Parameters)
	case "add_chore":
		return h.aiAddChore(ctx, household, userID, intent.Parameters)
	case "list_chores":
		return h.aiListChores(ctx, household)
	case "complete_chore":
		return h.aiCompleteChore(ctx, household, intent.Parameters)
	case "add_bill":
		return h.aiAddBill(ctx, household, userID, intent.Parameters)
	case "list_bills":
		return h.aiListBills(ctx, household)
	case "pay_bill":
		return h.aiPayBill(ctx, household, intent.Parameters)
	case "add_shopping":
		return h.aiAddShopping(ctx, household, userID, intent.Parameters)
	case "list_shopping":
		return h.aiListShopping(ctx, household)
	case "buy_shopping":
		return h.aiBuyShopping(ctx, household, intent.Parameters)
	case "plan_meal":
		return h.aiPlanMeal(ctx, household, userID, intent.Parameters)
	case "list_meals":
		return h.aiListMeals(ctx, household)
	default:
		if intent.AIMessage != "" {
			return intent.AIMessage
		}
		return "Sorry, I did not understand that. Try /help for the command list."
	}
}

func getHistory(userID int64) []ai.Message {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()

	session, ok := conversationSessions[userID]
	if !ok || time.Since(session.updatedAt) > sessionTimeout {
		return nil
	}
	return session.history
}

func appendHistory(userID int64, role, content string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	session, ok := conversationSessions[userID]
	if !ok || time.Since(session.updatedAt) > sessionTimeout {
		session = &conversationSession{}
		conversationSessions[userID] = session
	}
	session.history = append(session.history, ai.Message{Role: role, Content: content})
	if len(session.history) > maxHistoryLen {
		session.history = session.history[len(session.history)-maxHistoryLen:]
	}
	session.updatedAt = time.Now()
}
