package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID              uuid.UUID   `json:"id"`
	HouseholdID     uuid.UUID   `json:"household_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	StartAt         time.Time   `json:"start_at"` // UTC instant of the canonical occurrence
	EndAt           time.Time   `json:"end_at"`   // UTC instant, must be after StartAt
	Timezone        string      `json:"timezone"` // display zone, never used in expansion math
	IsAllDay        bool        `json:"is_all_day"`
	RRule           string      `json:"rrule"` // empty = one-shot event
	ExDates         []time.Time `json:"exdates"`
	RDates          []time.Time `json:"rdates"`
	Location        string      `json:"location"`
	ReminderMinutes []int       `json:"reminder_minutes"` // minutes before start
	Color           string      `json:"color"`
	CreatedBy       int64       `json:"created_by"`
	NotifiedAt      *time.Time  `json:"notified_at"` // last reminder sent
	CreatedAt       time.Time   `json:"created_at"`
}

// IsRecurring returns true if this event has a recurrence rule
func (e *Event) IsRecurring() bool {
	return e.RRule != ""
}

// Duration is the span of the canonical occurrence; expanded occurrences
// inherit it unchanged.
func (e *Event) Duration() time.Duration {
	return e.EndAt.Sub(e.StartAt)
}
