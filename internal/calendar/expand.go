// Package calendar expands recurring events into concrete occurrences and
// detects scheduling conflicts between them. Everything here is a pure
// function of its arguments: no storage, no clocks, no shared state.
package calendar

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
	apprrule "github.com/slipperyrat/home-management-app-sub004/internal/rrule"
)

// Expand materializes the occurrences of one event whose start instants fall
// within the closed window [windowStart, windowEnd].
//
// A non-recurring event yields its single canonical occurrence when StartAt
// is inside the window, nothing otherwise. A recurring event is enumerated
// from its rule anchored at StartAt, with exdates removed and rdates added,
// by exact instant match. Every occurrence keeps the event's own duration.
//
// Malformed rule text never surfaces as an error: the event degrades to its
// canonical occurrence (if in-window), so one corrupt rule cannot take down
// a whole calendar view.
func Expand(event models.Event, windowStart, windowEnd time.Time) []models.Occurrence {
	if !event.IsRecurring() {
		return singleOccurrence(event, windowStart, windowEnd)
	}

	starts, err := ruleStarts(event, windowStart, windowEnd)
	if err != nil {
		log.Printf("calendar: falling back to one-shot for event %s: %v", event.ID, err)
		return singleOccurrence(event, windowStart, windowEnd)
	}

	occurrences := make([]models.Occurrence, 0, len(starts))
	for i, startAt := range starts {
		occurrences = append(occurrences, makeOccurrence(event, i, startAt))
	}
	return occurrences
}

// ExpandAll expands each event in turn and concatenates the results. The
// output is ordered per event, not globally; callers that need a global
// ordering sort explicitly.
func ExpandAll(events []models.Event, windowStart, windowEnd time.Time) []models.Occurrence {
	var occurrences []models.Occurrence
	for _, event := range events {
		occurrences = append(occurrences, Expand(event, windowStart, windowEnd)...)
	}
	return occurrences
}

// SortByStart orders occurrences chronologically, ties broken by ID so the
// result is stable across calls.
func SortByStart(occurrences []models.Occurrence) {
	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].StartAt.Equal(occurrences[j].StartAt) {
			return occurrences[i].StartAt.Before(occurrences[j].StartAt)
		}
		return occurrences[i].ID < occurrences[j].ID
	})
}

// ruleStarts enumerates the start instants a recurring event generates
// inside the closed window. It is the only place rule text is parsed during
// expansion; a parse error here routes Expand onto the fallback path.
//
// The rule set compares instants textually, so every time entering it is
// normalized to UTC first.
func ruleStarts(event models.Event, windowStart, windowEnd time.Time) ([]time.Time, error) {
	r, err := apprrule.Parse(event.RRule, event.StartAt)
	if err != nil {
		return nil, err
	}

	var set rrule.Set
	set.RRule(r)

	for _, ex := range event.ExDates {
		set.ExDate(ex.UTC())
	}
	for _, rd := range event.RDates {
		set.RDate(rd.UTC())
	}

	starts := set.Between(windowStart.UTC(), windowEnd.UTC(), true)

	// An rdate that repeats a rule-generated instant must still yield one
	// occurrence. The merged stream is sorted, so duplicates are adjacent.
	deduped := make([]time.Time, 0, len(starts))
	for _, s := range starts {
		if n := len(deduped); n > 0 && s.Equal(deduped[n-1]) {
			continue
		}
		deduped = append(deduped, s)
	}
	return deduped, nil
}

// singleOccurrence returns the event's canonical occurrence when its start
// lies inside the closed window, and nothing otherwise.
func singleOccurrence(event models.Event, windowStart, windowEnd time.Time) []models.Occurrence {
	if event.StartAt.Before(windowStart) || event.StartAt.After(windowEnd) {
		return nil
	}
	return []models.Occurrence{makeOccurrence(event, 0, event.StartAt)}
}

// makeOccurrence projects an event onto one start instant. The occurrence ID
// is positional, so a given event and window always reproduce the same IDs.
func makeOccurrence(event models.Event, index int, startAt time.Time) models.Occurrence {
	return models.Occurrence{
		ID:          fmt.Sprintf("%s:%d", event.ID, index),
		EventID:     event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Timezone:    event.Timezone,
		IsAllDay:    event.IsAllDay,
		Color:       event.Color,
		StartAt:     startAt,
		EndAt:       startAt.Add(event.Duration()),
	}
}
