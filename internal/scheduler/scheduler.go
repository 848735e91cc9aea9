// Package scheduler pushes reminders and the morning digest to household
// chats. It wakes on a fixed interval, and immediately when the bot records
// something new.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/calendar"
	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/repository"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

const (
	defaultCheckInterval = time.Minute

	// eventLookahead bounds how far ahead occurrences are expanded when
	// matching reminder offsets against the clock.
	eventLookahead = 24 * time.Hour

	choreReminderHorizon = 2 * time.Hour
	billReminderHorizon  = 3 * 24 * time.Hour
)

type Scheduler struct {
	api        *tgbotapi.BotAPI
	households *repository.HouseholdRepository
	events     *repository.EventRepository
	chores     *repository.ChoreRepository
	bills      *repository.BillRepository
	meals      *repository.MealRepository
	settings   *repository.SettingsRepository

	checkInterval time.Duration
	notifyCh      chan struct{}
}

func New(api *tgbotapi.BotAPI, db *database.DB) *Scheduler {
	return &Scheduler{
		api:        api,
		households: repository.NewHouseholdRepository(db),
		events:     repository.NewEventRepository(db),
		chores:     repository.NewChoreRepository(db),
		bills:      repository.NewBillRepository(db),
		meals:      repository.NewMealRepository(db),
		settings:   repository.NewSettingsRepository(db),

		checkInterval: defaultCheckInterval,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify wakes the scheduler without waiting for the next tick. Safe from
// any goroutine; one pending wake-up is enough.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("scheduler: started, checking every %v", s.checkInterval)

	// Let the rest of the process come up first.
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}
	s.check(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("scheduler: stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.check(ctx)
		}
	}
}

// householdState carries one pass's delivery decisions for a household.
type householdState struct {
	household *models.Household
	settings  *models.HouseholdSettings
	zone      string
	remind    bool
}

func (s *Scheduler) householdStates(ctx context.Context, now time.Time) map[uuid.UUID]*householdState {
	households, err := s.households.List(ctx)
	if err != nil {
		log.Printf("scheduler: listing households: %v", err)
		return nil
	}

	states := make(map[uuid.UUID]*householdState, len(households))
	for _, hh := range households {
		settings, err := s.settings.Get(ctx, hh.ID)
		if err != nil {
			log.Printf("scheduler: loading settings for household %s: %v", hh.ID, err)
			continue
		}
		zone := settings.Timezone
		if zone == "" {
			zone = hh.Timezone
		}
		local := timezone.FromUTC(now, zone)
		states[hh.ID] = &householdState{
			household: hh,
			settings:  settings,
			zone:      zone,
			remind:    settings.RemindersEnabled && !settings.IsQuietHours(local),
		}
	}
	return states
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now().UTC()

	states := s.householdStates(ctx, now)
	for _, state := range states {
		if state.remind {
			s.checkEventReminders(ctx, state, now)
		}
	}

	s.checkChoreReminders(ctx, states, now)
	s.checkBillReminders(ctx, states, now)
}

// RunDigests delivers the morning summary to every household whose digest
// is due. The cron spec in config decides how often this is evaluated;
// ShouldSendDigest keeps it to once per local day.
func (s *Scheduler) RunDigests(ctx context.Context) {
	now := time.Now().UTC()

	for _, state := range s.householdStates(ctx, now) {
		local := timezone.FromUTC(now, state.zone)
		if !state.settings.ShouldSendDigest(local) {
			continue
		}
		s.sendDigest(ctx, state, now)
		// Record the local wall clock; ShouldSendDigest compares
		// year-days in the local frame.
		if err := s.settings.SetLastDigestDate(ctx, state.household.ID, local); err != nil {
			log.Printf("scheduler: recording digest for household %s: %v", state.household.ID, err)
		}
	}
}

// checkEventReminders matches upcoming occurrences against each event's
// reminder offsets. NotifiedAt only moves forward, so an offset fires once
// even across missed ticks.
func (s *Scheduler) checkEventReminders(ctx context.Context, state *householdState, now time.Time) {
	stored, err := s.events.GetForWindow(ctx, state.household.ID, now, now.Add(eventLookahead))
	if err != nil {
		log.Printf("scheduler: loading events for household %s: %v", state.household.ID, err)
		return
	}
	if len(stored) == 0 {
		return
	}

	byID := make(map[uuid.UUID]*models.Event, len(stored))
	events := make([]models.Event, 0, len(stored))
	for _, e := range stored {
		byID[e.ID] = e
		events = append(events, *e)
	}

	occurrences := calendar.ExpandAll(events, now, now.Add(eventLookahead))
	calendar.SortByStart(occurrences)

	for _, occ := range occurrences {
		event := byID[occ.EventID]
		if event == nil {
			continue
		}
		for _, mins := range event.ReminderMinutes {
			remindAt := occ.StartAt.Add(-time.Duration(mins) * time.Minute)
			if now.Before(remindAt) || !now.Before(occ.StartAt) {
				continue
			}
			if event.NotifiedAt != nil && !event.NotifiedAt.Before(remindAt) {
				continue
			}

			local := timezone.In(occ.StartAt, state.zone)
			var text string
			if occ.IsAllDay {
				text = fmt.Sprintf("⏰ %s is on %s", occ.Title, format.Day(local))
			} else {
				text = fmt.Sprintf("⏰ %s starts at %s", occ.Title, format.Clock(local))
			}
			if occ.Location != "" {
				text += " @ " + occ.Location
			}
			s.deliver(ctx, state.household.ID, text)

			if err := s.events.MarkNotified(ctx, event.ID, now); err != nil {
				log.Printf("scheduler: marking event %s notified: %v", event.ID, err)
			}
			notified := now
			event.NotifiedAt = &notified
		}
	}
}

func (s *Scheduler) checkChoreReminders(ctx context.Context, states map[uuid.UUID]*householdState, now time.Time) {
	chores, err := s.chores.GetDueForReminder(ctx, choreReminderHorizon)
	if err != nil {
		log.Printf("scheduler: loading due chores: %v", err)
		return
	}
	for _, chore := range chores {
		state := states[chore.HouseholdID]
		if state == nil || !state.remind {
			continue
		}

		local := timezone.In(*chore.DueAt, state.zone)
		text := fmt.Sprintf("🧹 %s is due %s %s.", chore.Title, format.Day(local), format.Clock(local))
		if chore.IsOverdue(now) {
			text = fmt.Sprintf("🧹 %s was due %s and is still waiting.", chore.Title, format.Day(local))
		}
		s.deliver(ctx, chore.HouseholdID, text)

		if err := s.chores.MarkNotified(ctx, chore.ChoreID, now); err != nil {
			log.Printf("scheduler: marking chore %d notified: %v", chore.ChoreID, err)
		}
	}
}

func (s *Scheduler) checkBillReminders(ctx context.Context, states map[uuid.UUID]*householdState, now time.Time) {
	bills, err := s.bills.GetDueForReminder(ctx, billReminderHorizon)
	if err != nil {
		log.Printf("scheduler: loading due bills: %v", err)
		return
	}
	for _, bill := range bills {
		state := states[bill.HouseholdID]
		if state == nil || !state.remind {
			continue
		}

		local := timezone.In(bill.DueAt, state.zone)
		text := fmt.Sprintf("💰 %s %s is due %s.", bill.Name, format.Amount(bill.Amount), format.Day(local))
		if bill.IsOverdue(now) {
			text = fmt.Sprintf("💰 %s %s is overdue, it was due %s.", bill.Name, format.Amount(bill.Amount), format.Day(local))
		}
		s.deliver(ctx, bill.HouseholdID, text)

		if err := s.bills.MarkNotified(ctx, bill.BillID, now); err != nil {
			log.Printf("scheduler: marking bill %d notified: %v", bill.BillID, err)
		}
	}
}

// digestWindow converts a local midnight into the closed UTC window for
// that day's digest. The end stops one second short of the next midnight,
// so an occurrence starting exactly on the boundary lands in one digest,
// not two.
func digestWindow(dayLocal time.Time, zone string) (time.Time, time.Time) {
	dayStart := timezone.ToUTC(dayLocal, zone)
	return dayStart, dayStart.Add(24*time.Hour - time.Second)
}

// sendDigest composes the morning summary: today's calendar, the open
// chores, bills due this week and the day's meal plan.
func (s *Scheduler) sendDigest(ctx context.Context, state *householdState, now time.Time) {
	local := timezone.FromUTC(now, state.zone)
	dayLocal := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := digestWindow(dayLocal, state.zone)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("☀️ %s\n\n📅 Today\n", format.Day(local)))

	stored, err := s.events.GetForWindow(ctx, state.household.ID, dayStart, dayEnd)
	if err != nil {
		log.Printf("scheduler: loading events for digest: %v", err)
		stored = nil
	}
	events := make([]models.Event, 0, len(stored))
	for _, e := range stored {
		events = append(events, *e)
	}
	occurrences := calendar.ExpandAll(events, dayStart, dayEnd)
	calendar.SortByStart(occurrences)
	if len(occurrences) == 0 {
		sb.WriteString("Nothing on the calendar.\n")
	}
	for _, occ := range occurrences {
		sb.WriteString(format.Occurrence(occ, state.zone) + "\n")
	}

	if chores, err := s.chores.GetActive(ctx, state.household.ID); err == nil && len(chores) > 0 {
		sb.WriteString("\n🧹 Chores\n")
		for _, chore := range chores {
			sb.WriteString(format.Chore(*chore, state.zone) + "\n")
		}
	}

	if bills, err := s.bills.GetUnpaid(ctx, state.household.ID); err == nil {
		var due []*models.Bill
		for _, bill := range bills {
			if bill.DueAt.Before(now.AddDate(0, 0, 7)) {
				due = append(due, bill)
			}
		}
		if len(due) > 0 {
			sb.WriteString("\n💰 Bills this week\n")
			for _, bill := range due {
				sb.WriteString(format.Bill(*bill, state.zone) + "\n")
			}
		}
	}

	if meals, err := s.meals.GetDay(ctx, state.household.ID, dayLocal); err == nil && len(meals) > 0 {
		sb.WriteString("\n🍽 Meals\n")
		for _, meal := range meals {
			sb.WriteString(fmt.Sprintf("%s: %s\n", meal.Slot, meal.Recipe))
		}
	}

	s.deliver(ctx, state.household.ID, strings.TrimRight(sb.String(), "\n"))
}

// deliver sends one message to every chat the household's members use.
func (s *Scheduler) deliver(ctx context.Context, householdID uuid.UUID, text string) {
	members, err := s.households.GetMembers(ctx, householdID)
	if err != nil {
		log.Printf("scheduler: loading members for household %s: %v", householdID, err)
		return
	}

	seen := make(map[int64]bool, len(members))
	for _, member := range members {
		if member.ChatID == 0 || seen[member.ChatID] {
			continue
		}
		seen[member.ChatID] = true
		if _, err := s.api.Send(tgbotapi.NewMessage(member.ChatID, text)); err != nil {
			log.Printf("scheduler: sending to chat %d: %v", member.ChatID, err)
		}
	}
}
