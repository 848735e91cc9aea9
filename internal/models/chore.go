package models

import (
	"time"

	"github.com/google/uuid"
)

type Chore struct {
	ChoreID     int        `json:"chore_id"`
	HouseholdID uuid.UUID  `json:"household_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *int       `json:"assignee_id"` // member, nil = anyone
	DueAt       *time.Time `json:"due_at"`
	RRule       string     `json:"rrule"` // empty = one-shot chore
	CompletedAt *time.Time `json:"completed_at"`
	NotifiedAt  *time.Time `json:"notified_at"` // last reminder sent for current due time
	CreatedAt   time.Time  `json:"created_at"`
}

func (c *Chore) IsCompleted() bool {
	return c.CompletedAt != nil
}

// IsRecurring returns true if this chore has a recurrence rule
func (c *Chore) IsRecurring() bool {
	return c.RRule != ""
}

func (c *Chore) IsOverdue(now time.Time) bool {
	return c.DueAt != nil && c.CompletedAt == nil && now.After(*c.DueAt)
}
