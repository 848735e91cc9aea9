package models

import (
	"time"

	"github.com/google/uuid"
)

type ShoppingItem struct {
	ItemID      int        `json:"item_id"`
	HouseholdID uuid.UUID  `json:"household_id"`
	Name        string     `json:"name"`
	Quantity    string     `json:"quantity"` // free text, "2L", "1 dozen"
	AddedBy     int64      `json:"added_by"`
	BoughtAt    *time.Time `json:"bought_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (s *ShoppingItem) IsBought() bool {
	return s.BoughtAt != nil
}
