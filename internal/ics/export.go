// Package ics renders the event store as an iCalendar feed so the
// schedule can be subscribed to from a regular calendar client.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ASLaskin/CalenAI/internal/store"
	"github.com/ASLaskin/CalenAI/internal/timeparse"
)

// Export serializes the look-ahead window starting at now into an ICS
// document. Each event becomes one VEVENT whose UID is the store id, so
// re-exports update rather than duplicate entries in subscribing clients.
func Export(st *store.Store, now time.Time, daysAhead int) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//CalenAI//calendar//EN")

	for i := 0; i < daysAhead; i++ {
		date := now.AddDate(0, 0, i)
		dateStr := date.Format("2006-01-02")

		for _, ev := range st.EventsForDay(dateStr) {
			start := clockTime(date, ev.StartTime)
			end := clockTime(date, ev.EndTime)
			if !end.After(start) {
				// Zero-length or inverted events still need a
				// positive duration to display.
				end = start.Add(30 * time.Minute)
			}

			ve := cal.AddEvent(ev.ID)
			ve.SetSummary(ev.Title)
			if ev.Description != "" {
				ve.SetDescription(ev.Description)
			}
			ve.SetStartAt(start)
			ve.SetEndAt(end)
			ve.SetDtStampTime(now)
		}
	}

	return cal.Serialize()
}

// clockTime combines a calendar day with a free-form clock string, using
// the same normalization the context summarizer sorts by.
func clockTime(day time.Time, clock string) time.Time {
	minutes := timeparse.Minutes(clock)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(minutes) * time.Minute)
}
