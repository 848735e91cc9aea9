package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type ShoppingRepository struct {
	db *database.DB
}

func NewShoppingRepository(db *database.DB) *ShoppingRepository {
	return &ShoppingRepository{db: db}
}

func (r *ShoppingRepository) Add(ctx context.Context, item *models.ShoppingItem) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO shopping_item (household_id, name, quantity, added_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING item_id, created_at`,
		item.HouseholdID, item.Name, item.Quantity, item.AddedBy,
	).Scan(&item.ItemID, &item.CreatedAt)
}

func (r *ShoppingRepository) GetOpen(ctx context.Context, householdID uuid.UUID) ([]*models.ShoppingItem, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT item_id, household_id, name, quantity, added_by, bought_at, created_at
		 FROM shopping_item WHERE household_id = $1 AND bought_at IS NULL
		 ORDER BY created_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ShoppingItem
	for rows.Next() {
		item := &models.ShoppingItem{}
		if err := rows.Scan(&item.ItemID, &item.HouseholdID, &item.Name, &item.Quantity,
			&item.AddedBy, &item.BoughtAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *ShoppingRepository) MarkBought(ctx context.Context, itemID int, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE shopping_item SET bought_at = $1 WHERE item_id = $2`,
		at, itemID,
	)
	return err
}

// ClearBought removes everything already ticked off the list.
func (r *ShoppingRepository) ClearBought(ctx context.Context, householdID uuid.UUID) (int, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM shopping_item WHERE household_id = $1 AND bought_at IS NOT NULL`,
		householdID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *ShoppingRepository) Delete(ctx context.Context, itemID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM shopping_item WHERE item_id = $1`, itemID)
	return err
}
