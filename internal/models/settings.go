package models

import (
	"time"

	"github.com/google/uuid"
)

// HouseholdSettings controls reminder delivery for one household.
// Times of day are "HH:MM" strings in the household's display timezone;
// callers localize instants before consulting the quiet/digest checks.
type HouseholdSettings struct {
	HouseholdID      uuid.UUID  `json:"household_id"`
	Timezone         string     `json:"timezone"`
	RemindersEnabled bool       `json:"reminders_enabled"`
	QuietStart       string     `json:"quiet_start"` // HH:MM format
	QuietEnd         string     `json:"quiet_end"`   // HH:MM format
	DigestEnabled    bool       `json:"digest_enabled"`
	DigestTime       string     `json:"digest_time"` // HH:MM format
	LastDigestDate   *time.Time `json:"last_digest_date"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewDefaultHouseholdSettings creates settings with default values. The
// empty Timezone means the household's own zone applies.
func NewDefaultHouseholdSettings(householdID uuid.UUID) *HouseholdSettings {
	return &HouseholdSettings{
		HouseholdID:      householdID,
		Timezone:         "",
		RemindersEnabled: true,
		QuietStart:       "21:30",
		QuietEnd:         "07:00",
		DigestEnabled:    true,
		DigestTime:       "07:30",
		LastDigestDate:   nil,
		UpdatedAt:        time.Now(),
	}
}

// IsQuietHours checks if the given local time is within quiet hours
func (s *HouseholdSettings) IsQuietHours(local time.Time) bool {
	currentMinutes := local.Hour()*60 + local.Minute()

	startHour, startMin := parseTimeString(s.QuietStart)
	endHour, endMin := parseTimeString(s.QuietEnd)

	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	// Overnight quiet hours (e.g. 21:30 - 07:00) span midnight
	if startMinutes > endMinutes {
		return currentMinutes >= startMinutes || currentMinutes < endMinutes
	}

	return currentMinutes >= startMinutes && currentMinutes < endMinutes
}

// ShouldSendDigest checks if the daily digest is due at the given local time
func (s *HouseholdSettings) ShouldSendDigest(local time.Time) bool {
	if !s.DigestEnabled {
		return false
	}

	// Already sent today
	if s.LastDigestDate != nil {
		last := *s.LastDigestDate
		if last.Year() == local.Year() && last.YearDay() == local.YearDay() {
			return false
		}
	}

	digestHour, digestMin := parseTimeString(s.DigestTime)
	digestAt := time.Date(local.Year(), local.Month(), local.Day(), digestHour, digestMin, 0, 0, local.Location())

	return !local.Before(digestAt)
}

// parseTimeString parses "HH:MM" format to hours and minutes
func parseTimeString(timeStr string) (hour, min int) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
