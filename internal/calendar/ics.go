package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/powerof10"
)

// GenerateICS renders meetings as one iCalendar feed of all-day events.
// Meetings whose date cannot be parsed are left out and counted in skipped.
func GenerateICS(meetings []powerof10.MeetingSummary, calName, baseURL string) (ics string, skipped int) {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Power of 10//po10//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	if calName != "" {
		b.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calName)))
	}

	stamp := formatICSTime(time.Now())
	for _, m := range meetings {
		start, end := ParseRange(m.Date)
		if start.IsZero() {
			skipped++
			continue
		}
		writeEvent(&b, m, start, end, stamp, strings.TrimRight(baseURL, "/"))
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), skipped
}

func writeEvent(b *strings.Builder, m powerof10.MeetingSummary, start, end time.Time, stamp, baseURL string) {
	b.WriteString("BEGIN:VEVENT\r\n")
	uid := m.MeetingID
	if uid == "" {
		uid = start.Format("20060102") + "-" + slug(m.Meeting)
	}
	b.WriteString(fmt.Sprintf("UID:%s@thepowerof10.info\r\n", uid))
	b.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	// DTEND is exclusive for all-day events.
	b.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(start)))
	b.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(end.AddDate(0, 0, 1))))

	b.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(m.Meeting)))
	if m.Venue != "" {
		b.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(m.Venue)))
	}
	if m.Type != "" {
		b.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS("Type: "+m.Type)))
	}
	if m.MeetingID != "" && baseURL != "" {
		b.WriteString(fmt.Sprintf("URL:%s/results/results.aspx?meetingid=%s\r\n", baseURL, m.MeetingID))
	}
	b.WriteString("TRANSP:TRANSPARENT\r\n")
	b.WriteString("END:VEVENT\r\n")
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes text values per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}
