package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/powerof10"
	"github.com/pfrederiksen/powerof10/internal/calendar"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate    SortOrder = "date"
	SortByMeeting SortOrder = "meeting"
	SortByVenue   SortOrder = "venue"
)

// sortMeetings sorts meetings in place. An empty order keeps the site's order.
func sortMeetings(meetings []powerof10.MeetingSummary, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(meetings, func(i, j int) bool {
			return compareByDate(meetings[i], meetings[j])
		})
	case SortByMeeting:
		sort.SliceStable(meetings, func(i, j int) bool {
			a, b := strings.ToLower(meetings[i].Meeting), strings.ToLower(meetings[j].Meeting)
			if a != b {
				return a < b
			}
			return compareByDate(meetings[i], meetings[j])
		})
	case SortByVenue:
		sort.SliceStable(meetings, func(i, j int) bool {
			a, b := strings.ToLower(meetings[i].Venue), strings.ToLower(meetings[j].Venue)
			if a != b {
				return a < b
			}
			return compareByDate(meetings[i], meetings[j])
		})
	}
}

// compareByDate reports whether i should come before j. Meetings with an
// unparseable date sort after dated ones, by title.
func compareByDate(i, j powerof10.MeetingSummary) bool {
	dateI, _ := calendar.ParseRange(i.Date)
	dateJ, _ := calendar.ParseRange(j.Date)

	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}
	return strings.ToLower(i.Meeting) < strings.ToLower(j.Meeting)
}
