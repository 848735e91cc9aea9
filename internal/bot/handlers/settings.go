package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

// handleSettings shows and edits household settings:
//
//	/settings
//	/settings tz <zone>
//	/settings quiet <start> <end>
//	/settings digest on|off|<HH:MM>
//	/settings reminders on|off
func (h *Handlers) handleSettings(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	settings, err := h.repos.Settings.Get(ctx, household.ID)
	if err != nil {
		log.Printf("bot: loading settings for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the settings, please try again later.")
		return
	}

	fields := strings.Fields(strings.TrimSpace(msg.CommandArguments()))
	if len(fields) == 0 {
		h.showSettings(msg.Chat.ID, household, settings)
		return
	}

	switch fields[0] {
	case "tz":
		if len(fields) != 2 {
			h.sendMessage(msg.Chat.ID, "Usage: /settings tz Australia/Sydney")
			return
		}
		settings.Timezone = fields[1]
	case "quiet":
		if len(fields) != 3 || !validClock(fields[1]) || !validClock(fields[2]) {
			h.sendMessage(msg.Chat.ID, "Usage: /settings quiet 21:30 07:00")
			return
		}
		settings.QuietStart, settings.QuietEnd = fields[1], fields[2]
	case "digest":
		if len(fields) != 2 {
			h.sendMessage(msg.Chat.ID, "Usage: /settings digest on, off or a time like 07:30")
			return
		}
		switch {
		case fields[1] == "on":
			settings.DigestEnabled = true
		case fields[1] == "off":
			settings.DigestEnabled = false
		case validClock(fields[1]):
			settings.DigestEnabled = true
			settings.DigestTime = fields[1]
		default:
			h.sendMessage(msg.Chat.ID, "Usage: /settings digest on, off or a time like 07:30")
			return
		}
	case "reminders":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			h.sendMessage(msg.Chat.ID, "Usage: /settings reminders on|off")
			return
		}
		settings.RemindersEnabled = fields[1] == "on"
	default:
		h.sendMessage(msg.Chat.ID, "Settings: tz, quiet, digest, reminders. Plain /settings shows everything.")
		return
	}

	if err := h.repos.Settings.Upsert(ctx, settings); err != nil {
		log.Printf("bot: saving settings for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not save the settings, please try again later.")
		return
	}
	h.showSettings(msg.Chat.ID, household, settings)
}

func (h *Handlers) showSettings(chatID int64, household *models.Household, settings *models.HouseholdSettings) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	zone := settings.Timezone
	if zone == "" {
		zone = household.Timezone
	}
	local := timezone.In(time.Now().UTC(), zone)

	text := fmt.Sprintf(`⚙️ %s

Household id: %s
Timezone: %s (now %s)
Reminders: %s
Quiet hours: %s - %s
Daily digest: %s at %s

Change with /settings tz|quiet|digest|reminders.
Others can join with /join %s`,
		household.Name,
		household.ID,
		zone, local.Format("15:04"),
		onOff(settings.RemindersEnabled),
		settings.QuietStart, settings.QuietEnd,
		onOff(settings.DigestEnabled), settings.DigestTime,
		household.ID)
	h.sendMessage(chatID, text)
}

func validClock(raw string) bool {
	_, err := time.Parse("15:04", raw)
	return err == nil
}
