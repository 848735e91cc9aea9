package models

import (
	"time"

	"github.com/google/uuid"
)

type Bill struct {
	BillID      int        `json:"bill_id"`
	HouseholdID uuid.UUID  `json:"household_id"`
	Name        string     `json:"name"`
	Amount      float64    `json:"amount"`
	DueAt       time.Time  `json:"due_at"`
	RRule       string     `json:"rrule"` // empty = one-shot bill
	PaidAt      *time.Time `json:"paid_at"`
	NotifiedAt  *time.Time `json:"notified_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (b *Bill) IsPaid() bool {
	return b.PaidAt != nil
}

func (b *Bill) IsRecurring() bool {
	return b.RRule != ""
}

func (b *Bill) IsOverdue(now time.Time) bool {
	return b.PaidAt == nil && now.After(b.DueAt)
}
