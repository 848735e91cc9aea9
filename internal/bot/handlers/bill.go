package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) handleBillAdd(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /bill <name> <amount> [date]\nFor example: /bill Rent 950 2025-09-01")
		return
	}

	zone := h.householdZone(ctx, household)
	now := time.Now().UTC()

	// Optional trailing due date.
	dueAt := now.AddDate(0, 0, 7)
	if at, err := parseLocalTime(fields[len(fields)-1], zone, now); err == nil && len(fields) >= 3 {
		dueAt = at
		fields = fields[:len(fields)-1]
	}

	amountRaw := strings.TrimPrefix(fields[len(fields)-1], "$")
	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(msg.Chat.ID, "I need an amount, like 950 or $49.90.")
		return
	}
	name := strings.Join(fields[:len(fields)-1], " ")
	if name == "" {
		h.sendMessage(msg.Chat.ID, "I need a name for the bill.")
		return
	}

	bill := &models.Bill{
		HouseholdID: household.ID,
		Name:        name,
		Amount:      amount,
		DueAt:       dueAt,
	}
	if err := h.repos.Bill.Create(ctx, bill); err != nil {
		log.Printf("bot: creating bill for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not add the bill, please try again later.")
		return
	}

	h.notifyScheduler()
	local := timezone.In(dueAt, zone)
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("💰 Bill #%d added: %s %s, due %s",
		bill.BillID, name, format.Amount(amount), format.Day(local)))
}

func (h *Handlers) handleBillList(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	bills, err := h.repos.Bill.GetUnpaid(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing bills for household %s: %v", household.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not load the bills, please try again later.")
		return
	}
	if len(bills) == 0 {
		h.sendMessage(msg.Chat.ID, "💰 All bills are paid. Nice.")
		return
	}

	zone := h.householdZone(ctx, household)
	var total float64
	var sb strings.Builder
	sb.WriteString("💰 Unpaid bills\n\n")
	for _, bill := range bills {
		sb.WriteString(format.Bill(*bill, zone) + "\n")
		total += bill.Amount
	}
	sb.WriteString(fmt.Sprintf("\nTotal %s. Mark one paid with /paid <number>.", format.Amount(total)))
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleBillPaid(ctx context.Context, msg *tgbotapi.Message, household *models.Household) {
	args := strings.TrimSpace(msg.CommandArguments())
	id, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /paid <number> (see /bills for the numbers)")
		return
	}

	reply, err := h.payBill(ctx, household, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("No bill #%d here.", id))
		} else {
			log.Printf("bot: paying bill %d: %v", id, err)
			h.sendMessage(msg.Chat.ID, "Could not update the bill, please try again later.")
		}
		return
	}
	h.sendMessage(msg.Chat.ID, reply)
}

// payBill marks a bill paid and, for recurring bills, rolls the due date
// forward to the next instant the rule produces.
func (h *Handlers) payBill(ctx context.Context, household *models.Household, id int) (string, error) {
	bill, err := h.repos.Bill.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if bill.HouseholdID != household.ID {
		return "", pgx.ErrNoRows
	}

	now := time.Now().UTC()
	if err := h.repos.Bill.MarkPaid(ctx, id, now); err != nil {
		return "", err
	}

	if bill.IsRecurring() {
		next, err := rrule.Next(bill.RRule, bill.DueAt, now)
		if err != nil {
			log.Printf("bot: advancing bill %d rule %q: %v", id, bill.RRule, err)
		} else if next != nil {
			if err := h.repos.Bill.Reschedule(ctx, id, *next); err != nil {
				return "", err
			}
			h.notifyScheduler()
			zone := h.householdZone(ctx, household)
			local := timezone.In(*next, zone)
			return fmt.Sprintf("✅ Paid %s for \"%s\". Next one due %s.",
				format.Amount(bill.Amount), bill.Name, format.Day(local)), nil
		}
	}

	return fmt.Sprintf("✅ Paid %s for \"%s\".", format.Amount(bill.Amount), bill.Name), nil
}
