// Package format renders household records as Telegram message lines.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
	"github.com/slipperyrat/home-management-app-sub004/internal/timezone"
)

// Day renders a date as "Mon 2 Jan".
func Day(t time.Time) string {
	return t.Format("Mon 2 Jan")
}

// Clock renders a time of day as "15:04".
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// Amount renders a money value as "$950.00".
func Amount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Duration renders a span as "45 min", "2 h" or "1 h 30 min".
func Duration(d time.Duration) string {
	minutes := int(d.Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%d h", minutes/60)
	default:
		return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
	}
}

// Occurrence renders one agenda line in the given display zone:
// "09:00-10:00 Weekly house clean @ Home". All-day occurrences render as
// "all day".
func Occurrence(o models.Occurrence, zone string) string {
	var b strings.Builder
	if o.IsAllDay {
		b.WriteString("all day")
	} else {
		start := timezone.In(o.StartAt, zone)
		end := timezone.In(o.EndAt, zone)
		b.WriteString(Clock(start) + "-" + Clock(end))
	}
	b.WriteString(" " + o.Title)
	if o.Location != "" {
		b.WriteString(" @ " + o.Location)
	}
	return b.String()
}

// Agenda renders occurrences grouped by local day, one header per day.
// The input is expected to be sorted by start time.
func Agenda(occurrences []models.Occurrence, zone string) string {
	if len(occurrences) == 0 {
		return "Nothing on the calendar."
	}

	var b strings.Builder
	var currentDay string
	for _, o := range occurrences {
		day := Day(timezone.In(o.StartAt, zone))
		if day != currentDay {
			if currentDay != "" {
				b.WriteString("\n")
			}
			b.WriteString(day + "\n")
			currentDay = day
		}
		b.WriteString("  " + Occurrence(o, zone) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Conflict renders one detected conflict pair.
func Conflict(pair models.ConflictPair, zone string) string {
	verb := "overlaps"
	if pair.Kind == models.ConflictAdjacent {
		verb = "backs onto"
	}
	return fmt.Sprintf("%s %s %s (%s)",
		pair.A.Title, verb, pair.B.Title,
		Day(timezone.In(pair.A.StartAt, zone)))
}

// Chore renders a chore list line: "3. Vacuum lounge (due Mon 2 Jan, weekly)".
func Chore(c models.Chore, zone string) string {
	var extras []string
	if c.DueAt != nil {
		extras = append(extras, "due "+Day(timezone.In(*c.DueAt, zone)))
	}
	if c.IsRecurring() {
		extras = append(extras, strings.ToLower(rrule.Describe(c.RRule)))
	}

	line := fmt.Sprintf("%d. %s", c.ChoreID, c.Title)
	if len(extras) > 0 {
		line += " (" + strings.Join(extras, ", ") + ")"
	}
	return line
}

// Bill renders a bill list line: "2. Rent $950.00 due Mon 1 Jul".
func Bill(b models.Bill, zone string) string {
	line := fmt.Sprintf("%d. %s %s due %s", b.BillID, b.Name, Amount(b.Amount),
		Day(timezone.In(b.DueAt, zone)))
	if b.IsOverdue(time.Now()) {
		line += " OVERDUE"
	}
	return line
}

// ShoppingItem renders a shopping list line: "5. Milk (2L)".
func ShoppingItem(item models.ShoppingItem) string {
	line := fmt.Sprintf("%d. %s", item.ItemID, item.Name)
	if item.Quantity != "" {
		line += " (" + item.Quantity + ")"
	}
	return line
}

// Meal renders a meal plan line: "Mon 2 Jan dinner: spaghetti".
func Meal(m models.MealPlan) string {
	line := fmt.Sprintf("%s %s: %s", Day(m.Date), m.Slot, m.Recipe)
	if m.Notes != "" {
		line += " (" + m.Notes + ")"
	}
	return line
}
