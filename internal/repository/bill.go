package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type BillRepository struct {
	db *database.DB
}

func NewBillRepository(db *database.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO bill (household_id, name, amount, due_at, rrule)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING bill_id, created_at`,
		bill.HouseholdID, bill.Name, bill.Amount, bill.DueAt, bill.RRule,
	).Scan(&bill.BillID, &bill.CreatedAt)
}

func (r *BillRepository) GetByID(ctx context.Context, billID int) (*models.Bill, error) {
	bill := &models.Bill{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT bill_id, household_id, name, amount, due_at, rrule, paid_at, notified_at, created_at
		 FROM bill WHERE bill_id = $1`,
		billID,
	).Scan(&bill.BillID, &bill.HouseholdID, &bill.Name, &bill.Amount, &bill.DueAt, &bill.RRule,
		&bill.PaidAt, &bill.NotifiedAt, &bill.CreatedAt)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *BillRepository) GetUnpaid(ctx context.Context, householdID uuid.UUID) ([]*models.Bill, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT bill_id, household_id, name, amount, due_at, rrule, paid_at, notified_at, created_at
		 FROM bill WHERE household_id = $1 AND paid_at IS NULL
		 ORDER BY due_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBills(rows)
}

// GetDueForReminder returns unpaid bills due within the horizon (or
// overdue) that have not been reminded in the past day.
func (r *BillRepository) GetDueForReminder(ctx context.Context, horizon time.Duration) ([]*models.Bill, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT bill_id, household_id, name, amount, due_at, rrule, paid_at, notified_at, created_at
		 FROM bill
		 WHERE paid_at IS NULL
		 AND due_at <= NOW() + make_interval(mins => $1)
		 AND (notified_at IS NULL OR notified_at < NOW() - interval '24 hours')
		 ORDER BY due_at ASC`,
		int(horizon.Minutes()),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBills(rows)
}

func (r *BillRepository) MarkPaid(ctx context.Context, billID int, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE bill SET paid_at = $1 WHERE bill_id = $2`,
		at, billID,
	)
	return err
}

// Reschedule rolls a recurring bill forward to its next due time, clearing
// payment and reminder state.
func (r *BillRepository) Reschedule(ctx context.Context, billID int, nextDue time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE bill SET due_at = $1, paid_at = NULL, notified_at = NULL WHERE bill_id = $2`,
		nextDue, billID,
	)
	return err
}

func (r *BillRepository) MarkNotified(ctx context.Context, billID int, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE bill SET notified_at = $1 WHERE bill_id = $2`,
		at, billID,
	)
	return err
}

func (r *BillRepository) Delete(ctx context.Context, billID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM bill WHERE bill_id = $1`, billID)
	return err
}

func (r *BillRepository) scanBills(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Bill, error) {
	var bills []*models.Bill
	for rows.Next() {
		bill := &models.Bill{}
		if err := rows.Scan(&bill.BillID, &bill.HouseholdID, &bill.Name, &bill.Amount, &bill.DueAt,
			&bill.RRule, &bill.PaidAt, &bill.NotifiedAt, &bill.CreatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}
