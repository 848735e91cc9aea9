package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/format"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

func (h *Handlers) aiAddBill(ctx context.Context, household *models.Household, userID int64, params map[string]string) string {
	name := strings.TrimSpace(params["name"])
	if name == "" {
		name = strings.TrimSpace(params["title"])
	}
	if name == "" {
		return "What's the bill for?"
	}

	amountRaw := strings.TrimPrefix(strings.TrimSpace(params["amount"]), "$")
	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil || amount <= 0 {
		return fmt.Sprintf("How much is the %s bill?", name)
	}

	zone := h.householdZone(ctx, household)
	now := time.Now().UTC()

	dueAt := now.AddDate(0, 0, 7)
	if dueRaw := params["due_time"]; dueRaw != "" {
		parsed, err := parseLocalTime(dueRaw, zone, now)
		if err != nil {
			return fmt.Sprintf("I could not read the due date %q, sorry.", dueRaw)
		}
		dueAt = parsed
	}

	rule := strings.TrimSpace(params["rrule"])
	if rule != "" {
		if _, err := rrule.Parse(rule, dueAt); err != nil {
			log.Printf("bot: dropping bad recurrence %q from parsed intent: %v", rule, err)
			rule = ""
		}
	}

	bill := &models.Bill{
		HouseholdID: household.ID,
		Name:        name,
		Amount:      amount,
		DueAt:       dueAt,
		RRule:       rule,
	}
	if err := h.repos.Bill.Create(ctx, bill); err != nil {
		log.Printf("bot: creating bill for household %s: %v", household.ID, err)
		return "Could not add the bill, please try again later."
	}

	h.notifyScheduler()
	local := timezone.In(dueAt, zone)
	reply := fmt.Sprintf("💰 Bill #%d added: %s %s, due %s", bill.BillID, name, format.Amount(amount), format.Day(local))
	if rule != "" {
		reply += ", " + strings.ToLower(rrule.Describe(rule))
	}
	return reply
}

func (h *Handlers) aiListBills(ctx context.Context, household *models.Household) string {
	bills, err := h.repos.Bill.GetUnpaid(ctx, household.ID)
	if err != nil {
		log.Printf("bot: listing bills for household %s: %v", household.ID, err)
		return "Could not load the bills, please try again later."
	}
	if len(bills) == 0 {
		return "💰 No unpaid bills. Nice."
	}

	zone := h.householdZone(ctx, household)
	var sb strings.Builder
	sb.WriteString("💰 Unpaid bills\n\n")
	total := 0.0
	for _, bill := range bills {
		sb.WriteString(format.Bill(*bill, zone) + "\n")
		total += bill.Amount
	}
	sb.WriteString(fmt.Sprintf("\nTotal %s.", format.Amount(total)))
	return sb.String()
}

func (h *Handlers) aiPayBill(ctx context.Context, household *models.Household, params map[string]string) string {
	id, err := strconv.Atoi(params["id"])
	if err != nil {
		return "Which bill number was paid? Check /bills for the numbers."
	}

	reply, err := h.payBill(ctx, household, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Sprintf("No bill #%d here.", id)
		}
		log.Printf("bot: paying bill %d: %v", id, err)
		return "Could not update the bill, please try again later."
	}
	return reply
}
