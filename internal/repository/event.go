package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO event (event_id, household_id, title, description, start_at, end_at, timezone,
		 is_all_day, rrule, exdates, rdates, location, reminder_minutes, color, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at`,
		event.ID, event.HouseholdID, event.Title, event.Description, event.StartAt, event.EndAt,
		event.Timezone, event.IsAllDay, event.RRule, event.ExDates, event.RDates, event.Location,
		event.ReminderMinutes, event.Color, event.CreatedBy,
	).Scan(&event.CreatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event := &models.Event{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT event_id, household_id, title, description, start_at, end_at, timezone, is_all_day,
		 rrule, exdates, rdates, location, reminder_minutes, color, created_by, notified_at, created_at
		 FROM event WHERE event_id = $1`,
		id,
	).Scan(&event.ID, &event.HouseholdID, &event.Title, &event.Description, &event.StartAt,
		&event.EndAt, &event.Timezone, &event.IsAllDay, &event.RRule, &event.ExDates, &event.RDates,
		&event.Location, &event.ReminderMinutes, &event.Color, &event.CreatedBy, &event.NotifiedAt,
		&event.CreatedAt)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) GetByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT event_id, household_id, title, description, start_at, end_at, timezone, is_all_day,
		 rrule, exdates, rdates, location, reminder_minutes, color, created_by, notified_at, created_at
		 FROM event WHERE household_id = $1
		 ORDER BY start_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// GetForWindow returns the events that can produce occurrences inside
// [from, to]: one-shots starting in the window plus every recurring event
// anchored before the window closes or carrying an rdate inside it. Rule
// evaluation happens in the expansion engine, not in SQL.
func (r *EventRepository) GetForWindow(ctx context.Context, householdID uuid.UUID, from, to time.Time) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT event_id, household_id, title, description, start_at, end_at, timezone, is_all_day,
		 rrule, exdates, rdates, location, reminder_minutes, color, created_by, notified_at, created_at
		 FROM event
		 WHERE household_id = $1
		 AND ((rrule <> '' AND (start_at <= $3
		        OR EXISTS (SELECT 1 FROM unnest(rdates) rd WHERE rd >= $2 AND rd <= $3)))
		      OR (rrule = '' AND start_at >= $2 AND start_at <= $3))
		 ORDER BY start_at ASC`,
		householdID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET title = $1, description = $2, start_at = $3, end_at = $4, timezone = $5,
		 is_all_day = $6, rrule = $7, exdates = $8, rdates = $9, location = $10,
		 reminder_minutes = $11, color = $12
		 WHERE event_id = $13`,
		event.Title, event.Description, event.StartAt, event.EndAt, event.Timezone, event.IsAllDay,
		event.RRule, event.ExDates, event.RDates, event.Location, event.ReminderMinutes, event.Color,
		event.ID,
	)
	return err
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM event WHERE event_id = $1`, id)
	return err
}

// AddExDate appends an exception instant to an event's exdate set.
func (r *EventRepository) AddExDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET exdates = array_append(exdates, $1) WHERE event_id = $2`,
		at, id,
	)
	return err
}

// AddRDate appends an extra instant to an event's rdate set.
func (r *EventRepository) AddRDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET rdates = array_append(rdates, $1) WHERE event_id = $2`,
		at, id,
	)
	return err
}

func (r *EventRepository) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET notified_at = $1 WHERE event_id = $2`,
		at, id,
	)
	return err
}

func (r *EventRepository) scanEvents(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.HouseholdID, &event.Title, &event.Description,
			&event.StartAt, &event.EndAt, &event.Timezone, &event.IsAllDay, &event.RRule,
			&event.ExDates, &event.RDates, &event.Location, &event.ReminderMinutes, &event.Color,
			&event.CreatedBy, &event.NotifiedAt, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
