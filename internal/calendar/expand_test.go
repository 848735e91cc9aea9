package calendar

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

var testEventID = uuid.MustParse("3f2a8b1c-9d4e-4f6a-8b2c-1d3e5f7a9b0c")

// weeklyMondays is the canonical fixture: one hour every Monday at 09:00 UTC
// starting Monday 1 Jan 2024.
func weeklyMondays() models.Event {
	return models.Event{
		ID:       testEventID,
		Title:    "Weekly house clean",
		StartAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Timezone: "Australia/Sydney",
		RRule:    "FREQ=WEEKLY;BYDAY=MO",
	}
}

func januaryWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
}

func TestExpandWeeklyRule(t *testing.T) {
	windowStart, windowEnd := januaryWindow()
	got := Expand(weeklyMondays(), windowStart, windowEnd)

	if len(got) != 3 {
		t.Fatalf("Expand() returned %d occurrences, want 3", len(got))
	}

	wantStarts := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	for i, occ := range got {
		if !occ.StartAt.Equal(wantStarts[i]) {
			t.Errorf("occurrence %d StartAt = %v, want %v", i, occ.StartAt, wantStarts[i])
		}
		if !occ.EndAt.Equal(wantStarts[i].Add(time.Hour)) {
			t.Errorf("occurrence %d EndAt = %v, want %v", i, occ.EndAt, wantStarts[i].Add(time.Hour))
		}
		if occ.EventID != testEventID {
			t.Errorf("occurrence %d EventID = %v, want %v", i, occ.EventID, testEventID)
		}
		if want := fmt.Sprintf("%s:%d", testEventID, i); occ.ID != want {
			t.Errorf("occurrence %d ID = %q, want %q", i, occ.ID, want)
		}
		if occ.Title != "Weekly house clean" {
			t.Errorf("occurrence %d Title = %q, want source title", i, occ.Title)
		}
	}
}

func TestExpandExDateRemovesInstant(t *testing.T) {
	event := weeklyMondays()
	event.ExDates = []time.Time{time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}

	windowStart, windowEnd := januaryWindow()
	got := Expand(event, windowStart, windowEnd)

	if len(got) != 2 {
		t.Fatalf("Expand() returned %d occurrences, want 2", len(got))
	}
	if !got[0].StartAt.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("first occurrence = %v, want Jan 1", got[0].StartAt)
	}
	if !got[1].StartAt.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("second occurrence = %v, want Jan 15", got[1].StartAt)
	}
}

func TestExpandExDateExactInstantOnly(t *testing.T) {
	event := weeklyMondays()
	// One second off the generated instant: no tolerance window, nothing is
	// excluded.
	event.ExDates = []time.Time{time.Date(2024, 1, 8, 9, 0, 1, 0, time.UTC)}

	windowStart, windowEnd := januaryWindow()
	if got := Expand(event, windowStart, windowEnd); len(got) != 3 {
		t.Errorf("Expand() returned %d occurrences, want 3 when exdate misses", len(got))
	}
}

func TestExpandRDateAddsInstant(t *testing.T) {
	event := weeklyMondays()
	// A Wednesday afternoon the rule would never generate.
	extra := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	event.RDates = []time.Time{extra}

	windowStart, windowEnd := januaryWindow()
	got := Expand(event, windowStart, windowEnd)

	if len(got) != 4 {
		t.Fatalf("Expand() returned %d occurrences, want 4", len(got))
	}

	found := 0
	for _, occ := range got {
		if occ.StartAt.Equal(extra) {
			found++
			if !occ.EndAt.Equal(extra.Add(time.Hour)) {
				t.Errorf("added occurrence EndAt = %v, want source duration applied", occ.EndAt)
			}
		}
	}
	if found != 1 {
		t.Errorf("added instant appeared %d times, want exactly once", found)
	}
}

func TestExpandRDateDeduplicatesAgainstRule(t *testing.T) {
	event := weeklyMondays()
	// Same instant the rule already generates.
	event.RDates = []time.Time{time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}

	windowStart, windowEnd := januaryWindow()
	if got := Expand(event, windowStart, windowEnd); len(got) != 3 {
		t.Errorf("Expand() returned %d occurrences, want 3 with duplicate rdate collapsed", len(got))
	}
}

func TestExpandRDateOutsideWindow(t *testing.T) {
	event := weeklyMondays()
	event.RDates = []time.Time{time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)}

	windowStart, windowEnd := januaryWindow()
	for _, occ := range Expand(event, windowStart, windowEnd) {
		if occ.StartAt.After(windowEnd) {
			t.Errorf("occurrence %v lies outside the window", occ.StartAt)
		}
	}
}

func TestExpandNonRecurring(t *testing.T) {
	windowStart, windowEnd := januaryWindow()

	tests := []struct {
		name    string
		startAt time.Time
		want    int
	}{
		{"inside window", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 1},
		{"exactly at window start", windowStart, 1},
		{"exactly at window end", windowEnd, 1},
		{"before window", time.Date(2023, 12, 25, 9, 0, 0, 0, time.UTC), 0},
		{"after window", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := weeklyMondays()
			event.RRule = ""
			event.StartAt = tt.startAt
			event.EndAt = tt.startAt.Add(time.Hour)

			got := Expand(event, windowStart, windowEnd)
			if len(got) != tt.want {
				t.Fatalf("Expand() returned %d occurrences, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				if got[0].ID != fmt.Sprintf("%s:0", testEventID) {
					t.Errorf("one-shot occurrence ID = %q", got[0].ID)
				}
				if !got[0].StartAt.Equal(tt.startAt) {
					t.Errorf("one-shot occurrence StartAt = %v, want %v", got[0].StartAt, tt.startAt)
				}
			}
		})
	}
}

func TestExpandMalformedRuleFallsBack(t *testing.T) {
	windowStart, windowEnd := januaryWindow()

	event := weeklyMondays()
	event.RRule = "FREQ=SOMETIMES;BYDAY=??"

	got := Expand(event, windowStart, windowEnd)
	if len(got) != 1 {
		t.Fatalf("Expand() returned %d occurrences, want the single canonical fallback", len(got))
	}
	if !got[0].StartAt.Equal(event.StartAt) || !got[0].EndAt.Equal(event.EndAt) {
		t.Errorf("fallback occurrence = [%v, %v], want canonical bounds", got[0].StartAt, got[0].EndAt)
	}

	// Canonical instant outside the window degrades to nothing.
	event.StartAt = time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	event.EndAt = event.StartAt.Add(time.Hour)
	if got := Expand(event, windowStart, windowEnd); len(got) != 0 {
		t.Errorf("Expand() returned %d occurrences, want none for out-of-window fallback", len(got))
	}
}

func TestExpandDurationInvariance(t *testing.T) {
	event := weeklyMondays()
	event.RRule = "FREQ=DAILY"
	event.EndAt = event.StartAt.Add(90 * time.Minute)

	windowStart, windowEnd := januaryWindow()
	got := Expand(event, windowStart, windowEnd)
	if len(got) == 0 {
		t.Fatal("Expand() returned no occurrences")
	}
	for _, occ := range got {
		if occ.Duration() != 90*time.Minute {
			t.Errorf("occurrence %s duration = %v, want 90m", occ.ID, occ.Duration())
		}
	}
}

func TestExpandWindowContainment(t *testing.T) {
	event := weeklyMondays()
	event.RRule = "FREQ=DAILY"

	windowStart, windowEnd := januaryWindow()
	for _, occ := range Expand(event, windowStart, windowEnd) {
		if occ.StartAt.Before(windowStart) || occ.StartAt.After(windowEnd) {
			t.Errorf("occurrence %v escapes the closed window", occ.StartAt)
		}
	}
}

func TestExpandCountBound(t *testing.T) {
	event := weeklyMondays()
	event.RRule = "FREQ=DAILY;COUNT=3"

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := Expand(event, windowStart, windowEnd); len(got) != 3 {
		t.Errorf("Expand() returned %d occurrences, want the rule's count of 3", len(got))
	}
}

func TestExpandIsDeterministic(t *testing.T) {
	event := weeklyMondays()
	event.ExDates = []time.Time{time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
	event.RDates = []time.Time{time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)}

	windowStart, windowEnd := januaryWindow()
	first := Expand(event, windowStart, windowEnd)
	second := Expand(event, windowStart, windowEnd)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expand() is not deterministic:\n%v\n%v", first, second)
	}
}

func TestExpandAll(t *testing.T) {
	recurring := weeklyMondays()

	oneShot := models.Event{
		ID:      uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		Title:   "Plumber visit",
		StartAt: time.Date(2024, 1, 3, 13, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC),
	}

	windowStart, windowEnd := januaryWindow()
	got := ExpandAll([]models.Event{recurring, oneShot}, windowStart, windowEnd)
	if len(got) != 4 {
		t.Fatalf("ExpandAll() returned %d occurrences, want 4", len(got))
	}

	SortByStart(got)
	for i := 1; i < len(got); i++ {
		if got[i].StartAt.Before(got[i-1].StartAt) {
			t.Errorf("occurrences not sorted at index %d", i)
		}
	}
	if got[1].Title != "Plumber visit" {
		t.Errorf("sorted occurrence 1 = %q, want the Wednesday one-shot", got[1].Title)
	}
}
