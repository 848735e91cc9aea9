package models

import (
	"time"

	"github.com/google/uuid"
)

type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
)

type MealPlan struct {
	MealID      int       `json:"meal_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Date        time.Time `json:"date"` // midnight UTC of the planned day
	Slot        MealSlot  `json:"slot"`
	Recipe      string    `json:"recipe"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}
