package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type ChoreRepository struct {
	db *database.DB
}

func NewChoreRepository(db *database.DB) *ChoreRepository {
	return &ChoreRepository{db: db}
}

func (r *ChoreRepository) Create(ctx context.Context, chore *models.Chore) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO chore (household_id, title, description, assignee_id, due_at, rrule)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING chore_id, created_at`,
		chore.HouseholdID, chore.Title, chore.Description, chore.AssigneeID, chore.DueAt, chore.RRule,
	).Scan(&chore.ChoreID, &chore.CreatedAt)
}

func (r *ChoreRepository) GetByID(ctx context.Context, choreID int) (*models.Chore, error) {
	chore := &models.Chore{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT chore_id, household_id, title, description, assignee_id, due_at, rrule,
		 completed_at, notified_at, created_at
		 FROM chore WHERE chore_id = $1`,
		choreID,
	).Scan(&chore.ChoreID, &chore.HouseholdID, &chore.Title, &chore.Description, &chore.AssigneeID,
		&chore.DueAt, &chore.RRule, &chore.CompletedAt, &chore.NotifiedAt, &chore.CreatedAt)
	if err != nil {
		return nil, err
	}
	return chore, nil
}

func (r *ChoreRepository) GetActive(ctx context.Context, householdID uuid.UUID) ([]*models.Chore, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT chore_id, household_id, title, description, assignee_id, due_at, rrule,
		 completed_at, notified_at, created_at
		 FROM chore WHERE household_id = $1 AND completed_at IS NULL
		 ORDER BY due_at ASC NULLS LAST, created_at DESC`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanChores(rows)
}

// GetDueForReminder returns unfinished chores due within the horizon (or
// overdue) that have not been reminded in the past day.
func (r *ChoreRepository) GetDueForReminder(ctx context.Context, horizon time.Duration) ([]*models.Chore, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT chore_id, household_id, title, description, assignee_id, due_at, rrule,
		 completed_at, notified_at, created_at
		 FROM chore
		 WHERE completed_at IS NULL
		 AND due_at IS NOT NULL
		 AND due_at <= NOW() + make_interval(mins => $1)
		 AND (notified_at IS NULL OR notified_at < NOW() - interval '24 hours')
		 ORDER BY due_at ASC`,
		int(horizon.Minutes()),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanChores(rows)
}

func (r *ChoreRepository) Complete(ctx context.Context, choreID int, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE chore SET completed_at = $1 WHERE chore_id = $2`,
		at, choreID,
	)
	return err
}

// Reschedule rolls a recurring chore forward: new due time, completion and
// reminder state cleared.
func (r *ChoreRepository) Reschedule(ctx context.Context, choreID int, nextDue time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE chore SET due_at = $1, completed_at = NULL, notified_at = NULL WHERE chore_id = $2`,
		nextDue, choreID,
	)
	return err
}

func (r *ChoreRepository) MarkNotified(ctx context.Context, choreID int, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE chore SET notified_at = $1 WHERE chore_id = $2`,
		at, choreID,
	)
	return err
}

func (r *ChoreRepository) Delete(ctx context.Context, choreID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM chore WHERE chore_id = $1`, choreID)
	return err
}

func (r *ChoreRepository) scanChores(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Chore, error) {
	var chores []*models.Chore
	for rows.Next() {
		chore := &models.Chore{}
		if err := rows.Scan(&chore.ChoreID, &chore.HouseholdID, &chore.Title, &chore.Description,
			&chore.AssigneeID, &chore.DueAt, &chore.RRule, &chore.CompletedAt, &chore.NotifiedAt,
			&chore.CreatedAt); err != nil {
			return nil, err
		}
		chores = append(chores, chore)
	}
	return chores, nil
}
