package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the household's settings, falling back to defaults when no
// row exists yet.
func (r *SettingsRepository) Get(ctx context.Context, householdID uuid.UUID) (*models.HouseholdSettings, error) {
	settings := &models.HouseholdSettings{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT household_id, timezone, reminders_enabled, quiet_start, quiet_end,
		 digest_enabled, digest_time, last_digest_date, updated_at
		 FROM household_settings WHERE household_id = $1`,
		householdID,
	).Scan(&settings.HouseholdID, &settings.Timezone, &settings.RemindersEnabled,
		&settings.QuietStart, &settings.QuietEnd, &settings.DigestEnabled, &settings.DigestTime,
		&settings.LastDigestDate, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewDefaultHouseholdSettings(householdID), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.HouseholdSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO household_settings (household_id, timezone, reminders_enabled, quiet_start,
		 quiet_end, digest_enabled, digest_time, last_digest_date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (household_id)
		 DO UPDATE SET timezone = EXCLUDED.timezone,
		   reminders_enabled = EXCLUDED.reminders_enabled,
		   quiet_start = EXCLUDED.quiet_start,
		   quiet_end = EXCLUDED.quiet_end,
		   digest_enabled = EXCLUDED.digest_enabled,
		   digest_time = EXCLUDED.digest_time,
		   last_digest_date = EXCLUDED.last_digest_date,
		   updated_at = EXCLUDED.updated_at`,
		settings.HouseholdID, settings.Timezone, settings.RemindersEnabled, settings.QuietStart,
		settings.QuietEnd, settings.DigestEnabled, settings.DigestTime, settings.LastDigestDate,
		settings.UpdatedAt,
	)
	return err
}

func (r *SettingsRepository) SetLastDigestDate(ctx context.Context, householdID uuid.UUID, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO household_settings (household_id, last_digest_date)
		 VALUES ($1, $2)
		 ON CONFLICT (household_id)
		 DO UPDATE SET last_digest_date = EXCLUDED.last_digest_date, updated_at = NOW()`,
		householdID, at,
	)
	return err
}
