package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ASLaskin/CalenAI/internal/timeparse"
)

// Context renders the look-ahead window starting at now as the natural
// language digest fed to the model. This is the only view of the store
// the model ever sees, so every event line carries the id needed to
// reference it in later operations.
func (s *Store) Context(now time.Time, daysAhead int) string {
	var b strings.Builder
	b.WriteString("Current Calendar:\n")

	today := now
	for i := 0; i < daysAhead; i++ {
		date := today.AddDate(0, 0, i)
		dateStr := date.Format("2006-01-02")

		var dayName string
		switch i {
		case 0:
			dayName = "Today"
		case 1:
			dayName = "Tomorrow"
		default:
			dayName = date.Format("Monday, Jan 02")
		}

		fmt.Fprintf(&b, "\n%s (%s):\n", dayName, dateStr)

		events := s.EventsForDay(dateStr)
		if len(events) == 0 {
			b.WriteString("- No events scheduled\n")
			continue
		}

		// Stable sort keeps insertion order for equal start times.
		sort.SliceStable(events, func(i, j int) bool {
			return timeparse.Minutes(events[i].StartTime) < timeparse.Minutes(events[j].StartTime)
		})

		for _, ev := range events {
			fmt.Fprintf(&b, "- %s-%s: %s", ev.StartTime, ev.EndTime, ev.Title)
			if ev.Description != "" {
				fmt.Fprintf(&b, " (%s)", ev.Description)
			}
			fmt.Fprintf(&b, " [ID: %s]\n", ev.ID)
		}
	}

	return b.String()
}
