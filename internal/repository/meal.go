package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type MealRepository struct {
	db *database.DB
}

func NewMealRepository(db *database.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Upsert writes one slot of the plan; planning the same slot twice replaces
// the recipe.
func (r *MealRepository) Upsert(ctx context.Context, meal *models.MealPlan) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO meal_plan (household_id, date, slot, recipe, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (household_id, date, slot)
		 DO UPDATE SET recipe = EXCLUDED.recipe, notes = EXCLUDED.notes
		 RETURNING meal_id, created_at`,
		meal.HouseholdID, meal.Date, meal.Slot, meal.Recipe, meal.Notes,
	).Scan(&meal.MealID, &meal.CreatedAt)
}

// GetWeek returns the plan for the seven days starting at from.
func (r *MealRepository) GetWeek(ctx context.Context, householdID uuid.UUID, from time.Time) ([]*models.MealPlan, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT meal_id, household_id, date, slot, recipe, notes, created_at
		 FROM meal_plan
		 WHERE household_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC, CASE slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END`,
		householdID, from, from.AddDate(0, 0, 7),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []*models.MealPlan
	for rows.Next() {
		meal := &models.MealPlan{}
		if err := rows.Scan(&meal.MealID, &meal.HouseholdID, &meal.Date, &meal.Slot, &meal.Recipe,
			&meal.Notes, &meal.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

func (r *MealRepository) GetDay(ctx context.Context, householdID uuid.UUID, day time.Time) ([]*models.MealPlan, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT meal_id, household_id, date, slot, recipe, notes, created_at
		 FROM meal_plan
		 WHERE household_id = $1 AND date = $2
		 ORDER BY CASE slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END`,
		householdID, day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []*models.MealPlan
	for rows.Next() {
		meal := &models.MealPlan{}
		if err := rows.Scan(&meal.MealID, &meal.HouseholdID, &meal.Date, &meal.Slot, &meal.Recipe,
			&meal.Notes, &meal.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

func (r *MealRepository) Delete(ctx context.Context, mealID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM meal_plan WHERE meal_id = $1`, mealID)
	return err
}
