// Package ical serializes expanded occurrences as an iCalendar feed so the
// household calendar can be subscribed to from other calendar apps.
package ical

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

// Build renders occurrences as a VCALENDAR document. Occurrence IDs become
// the event UIDs, so a given window always serializes to the same feed.
func Build(name string, occurrences []models.Occurrence, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//home-management-app//calendar//EN")
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, o := range occurrences {
		ev := cal.AddEvent(o.ID)
		ev.SetDtStampTime(now.UTC())
		ev.SetSummary(o.Title)
		if o.Description != "" {
			ev.SetDescription(o.Description)
		}
		if o.Location != "" {
			ev.SetLocation(o.Location)
		}
		if o.IsAllDay {
			ev.SetAllDayStartAt(o.StartAt.UTC())
			ev.SetAllDayEndAt(o.EndAt.UTC())
		} else {
			ev.SetStartAt(o.StartAt.UTC())
			ev.SetEndAt(o.EndAt.UTC())
		}
	}

	return cal.Serialize()
}
