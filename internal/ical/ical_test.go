package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

func TestBuild(t *testing.T) {
	eventID := uuid.MustParse("3f2a8b1c-9d4e-4f6a-8b2c-1d3e5f7a9b0c")
	occurrences := []models.Occurrence{
		{
			ID:       eventID.String() + ":0",
			EventID:  eventID,
			Title:    "Weekly house clean",
			Location: "Home",
			StartAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:      eventID.String() + ":1",
			EventID: eventID,
			Title:   "Weekly house clean",
			StartAt: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
		},
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := Build("Smith household", occurrences, now)

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Fatalf("Build() output does not start with BEGIN:VCALENDAR:\n%s", out)
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Build() produced %d VEVENT blocks, want 2", got)
	}
	for _, want := range []string{
		"UID:" + eventID.String() + ":0",
		"UID:" + eventID.String() + ":1",
		"SUMMARY:Weekly house clean",
		"LOCATION:Home",
		"X-WR-CALNAME:Smith household",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Build() output missing %q", want)
		}
	}
}

func TestBuildAllDay(t *testing.T) {
	occurrences := []models.Occurrence{
		{
			ID:       "b1946ac9-2b5c-4a5e-9d11-0e5f8a3c2d47:0",
			Title:    "Council clean-up day",
			IsAllDay: true,
			StartAt:  time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	out := Build("", occurrences, now)

	if !strings.Contains(out, "DTSTART;VALUE=DATE:20240504") {
		t.Errorf("Build() all-day output missing date-valued DTSTART:\n%s", out)
	}
	if strings.Contains(out, "X-WR-CALNAME") {
		t.Errorf("Build() with empty name should not emit X-WR-CALNAME")
	}
}

func TestBuildEmpty(t *testing.T) {
	out := Build("Smith household", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Errorf("Build() with no occurrences should not emit VEVENT blocks")
	}
	if !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("Build() output missing END:VCALENDAR")
	}
}
