package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/ai"
	"github.com/slipperyrat/home-management-app-sub004/internal/bot/handlers"
	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/repository"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(token string, db *database.DB, aiClient *ai.Client, defaultTZ string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	repos := &handlers.Repositories{
		Household: repository.NewHouseholdRepository(db),
		Event:     repository.NewEventRepository(db),
		Chore:     repository.NewChoreRepository(db),
		Bill:      repository.NewBillRepository(db),
		Meal:      repository.NewMealRepository(db),
		Shopping:  repository.NewShoppingRepository(db),
		Settings:  repository.NewSettingsRepository(db),
	}

	return &Bot{
		api:      api,
		handlers: handlers.New(api, repos, aiClient, defaultTZ),
	}, nil
}

// API exposes the Telegram client so the scheduler can push reminders
// through the same connection.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// SetSchedulerNotify forwards the scheduler's wake-up hook to the handlers.
func (b *Bot) SetSchedulerNotify(notify func()) {
	b.handlers.SetSchedulerNotify(notify)
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("bot: authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	// Everything else goes through intent parsing.
	b.handlers.HandleMessage(ctx, update.Message)
}
