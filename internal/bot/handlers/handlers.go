package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/ai"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/repository"
)

type Repositories struct {
	Household *repository.HouseholdRepository
	Event     *repository.EventRepository
	Chore     *repository.ChoreRepository
	Bill      *repository.BillRepository
	Meal      *repository.MealRepository
	Shopping  *repository.ShoppingRepository
	Settings  *repository.SettingsRepository
}

type Handlers struct {
	api       *tgbotapi.BotAPI
	repos     *Repositories
	ai        *ai.Client
	defaultTZ string
	notify    func()
}

func New(api *tgbotapi.BotAPI, repos *Repositories, aiClient *ai.Client, defaultTZ string) *Handlers {
	return &Handlers{
		api:       api,
		repos:     repos,
		ai:        aiClient,
		defaultTZ: defaultTZ,
	}
}

// SetSchedulerNotify wires the scheduler's wake-up call so newly created
// chores and bills get their reminders evaluated right away.
func (h *Handlers) SetSchedulerNotify(notify func()) {
	h.notify = notify
}

func (h *Handlers) notifyScheduler() {
	if h.notify != nil {
		h.notify()
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	household, _, err := h.memberContext(ctx, msg)
	if err != nil {
		log.Printf("bot: resolving household for user %d: %v", msg.From.ID, err)
		h.sendMessage(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg, household)
	case "help":
		h.handleHelp(ctx, msg)
	case "join":
		h.handleJoin(ctx, msg)
	case "agenda":
		h.handleAgenda(ctx, msg, household)
	case "conflicts":
		h.handleConflicts(ctx, msg, household)
	case "event":
		h.handleEventAdd(ctx, msg, household)
	case "events":
		h.handleEventList(ctx, msg, household)
	case "delevent":
		h.handleEventDelete(ctx, msg, household)
	case "chore":
		h.handleChoreAdd(ctx, msg, household)
	case "chores":
		h.handleChoreList(ctx, msg, household)
	case "done":
		h.handleChoreDone(ctx, msg, household)
	case "bill":
		h.handleBillAdd(ctx, msg, household)
	case "bills":
		h.handleBillList(ctx, msg, household)
	case "paid":
		h.handleBillPaid(ctx, msg, household)
	case "shop":
		h.handleShop(ctx, msg, household)
	case "bought":
		h.handleBought(ctx, msg, household)
	case "meal":
		h.handleMealPlan(ctx, msg, household)
	case "meals":
		h.handleMealList(ctx, msg, household)
	case "settings":
		h.handleSettings(ctx, msg, household)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, see /help for everything I understand.")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	household, _, err := h.memberContext(ctx, msg)
	if err != nil {
		log.Printf("bot: resolving household for user %d: %v", msg.From.ID, err)
		return
	}

	h.handleAIMessage(ctx, msg, household)
}

// memberContext resolves the sender's household, creating a personal one on
// first contact so every command has a household to work in.
func (h *Handlers) memberContext(ctx context.Context, msg *tgbotapi.Message) (*models.Household, *models.Member, error) {
	member, err := h.repos.Household.GetMemberByUserID(ctx, msg.From.ID)
	if err == nil {
		household, err := h.repos.Household.GetByID(ctx, member.HouseholdID)
		if err != nil {
			return nil, nil, err
		}
		return household, member, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = msg.From.UserName
	}
	household := &models.Household{
		ID:       uuid.New(),
		Name:     name + "'s household",
		Timezone: h.defaultTZ,
	}
	if err := h.repos.Household.Create(ctx, household); err != nil {
		return nil, nil, err
	}
	member = &models.Member{
		HouseholdID: household.ID,
		UserID:      msg.From.ID,
		ChatID:      msg.Chat.ID,
		DisplayName: name,
		Role:        models.RoleOwner,
	}
	if err := h.repos.Household.AddMember(ctx, member); err != nil {
		return nil, nil, err
	}
	log.Printf("bot: created household %s for user %d", household.ID, msg.From.ID)
	return household, member, nil
}

// householdZone returns the zone reminders and listings render in.
func (h *Handlers) householdZone(ctx context.Context, household *models.Household) string {
	settings, err := h.repos.Settings.Get(ctx, household.ID)
	if err != nil {
		log.Printf("bot: loading settings for household %s: %v", household.ID, err)
		return household.Timezone
	}
	if settings.Timezone != "" {
		return settings.Timezone
	}
	return household.Timezone
}

func (h *Handlers) handleJoin(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /join <household id>\nAsk a member for the id shown by /settings.")
		return
	}

	id, err := uuid.Parse(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "That doesn't look like a household id.")
		return
	}
	household, err := h.repos.Household.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.sendMessage(msg.Chat.ID, "No household with that id.")
		} else {
			log.Printf("bot: loading household %s: %v", id, err)
			h.sendMessage(msg.Chat.ID, "Something went wrong, please try again later.")
		}
		return
	}

	if err := h.repos.Household.MoveMember(ctx, msg.From.ID, household.ID); err != nil {
		log.Printf("bot: moving user %d to household %s: %v", msg.From.ID, household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not join that household, please try again later.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("👋 Welcome to %s! Use /agenda to see what's on.", household.Name))
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("bot: sending message to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("bot: editing message %d: %v", messageID, err)
	}
}

func (h *Handlers) answerCallback(callbackID string, text string) {
	answer := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("bot: answering callback: %v", err)
	}
}

func (h *Handlers) answerCallbackWithAlert(callbackID string, text string) {
	answer := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("bot: answering callback with alert: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	text := fmt.Sprintf(`👋 Hi %s!

I keep track of everything your household has going on: the shared
calendar, chores, bills, the shopping list and the meal plan.

You're set up in "%s".

Try:
• /agenda - what's coming up this week
• /chore Take out the bins tomorrow 19:00
• /bill Rent 950 2025-09-01
• /shop milk

You can also just tell me things like "remind me to water the plants
every Tuesday" and I'll sort it out.

/help lists every command.`, msg.From.FirstName, household.Name)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 Commands

Calendar
/agenda [days] - upcoming schedule (default 7 days)
/conflicts [days] - find clashing entries
/event <title> <time> - add an event
/events - list events
/delevent <number> - delete an event

Chores
/chore <title> [time] - add a chore
/chores - list open chores
/done <number> - mark a chore done

Bills
/bill <name> <amount> [date] - track a bill
/bills - list unpaid bills
/paid <number> - mark a bill paid

Shopping
/shop <item> - add to the shopping list
/shop - show the list
/bought <number> - tick an item off
/bought all - clear everything bought

Meals
/meal <day> <slot> <recipe> - plan a meal
/meals - this week's plan

Household
/join <id> - join another household
/settings - household settings

💡 Or just say it in plain language!`
	h.sendMessage(msg.Chat.ID, text)
}
