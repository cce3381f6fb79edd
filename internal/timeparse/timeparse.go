// Package timeparse normalizes the free-form clock strings the model
// emits ("9:00am", "14:30", "12 pm") into a sortable minute-of-day value.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	re12h = regexp.MustCompile(`^(\d+)(?::(\d+))?\s*(am|pm)`)
	re24h = regexp.MustCompile(`^(\d+)(?::(\d+))?`)
)

// Minutes converts a clock string into minutes since midnight.
//
// Two shapes are accepted: "H[:MM] am|pm" (case-insensitive, surrounding
// whitespace ignored) and bare "H[:MM]" taken as 24-hour time. Anything
// unparseable maps to 0 so that malformed model output still sorts
// deterministically instead of failing a whole day's rendering.
func Minutes(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))

	if m := re12h.FindStringSubmatch(s); m != nil {
		hour := atoi(m[1])
		minute := atoi(m[2])
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return hour*60 + minute
	}

	if m := re24h.FindStringSubmatch(s); m != nil {
		return atoi(m[1])*60 + atoi(m[2])
	}

	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
