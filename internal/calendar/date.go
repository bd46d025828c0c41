package calendar

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2 Jan 06",
	"02 Jan 06",
	"2 Jan 2006",
	"02 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Mon 2 Jan 2006",
	"Mon 2 Jan 06",
	"2 January 2006",
}

// ParseDate parses a meeting date as the site prints it, e.g. "1 Jan 16" or
// "14 May 2022". It returns the zero time when no layout matches.
func ParseDate(text string) time.Time {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseRange handles multi-day meetings printed as "14-15 May 2022". The end
// is the same as the start for single-day meetings.
func ParseRange(text string) (start, end time.Time) {
	if start = ParseDate(text); !start.IsZero() {
		return start, start
	}
	days, rest, ok := strings.Cut(strings.TrimSpace(text), " ")
	if !ok {
		return time.Time{}, time.Time{}
	}
	from, to, ok := strings.Cut(days, "-")
	if !ok {
		return time.Time{}, time.Time{}
	}
	start = ParseDate(from + " " + rest)
	end = ParseDate(to + " " + rest)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return time.Time{}, time.Time{}
	}
	return start, end
}
