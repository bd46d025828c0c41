package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/powerof10"
	"github.com/pfrederiksen/powerof10/internal/calendar"
	"github.com/pfrederiksen/powerof10/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes v in the specified format
func WriteOutput(w io.Writer, v any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatText:
		return writeText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if header != nil {
		t.AppendHeader(header)
	}
	return t
}

func writeText(w io.Writer, v any) error {
	switch v := v.(type) {
	case []powerof10.AthleteSummary:
		t := newTable(w, table.Row{"ID", "First", "Surname", "Track", "Road", "XC", "Sex", "Club"})
		for _, a := range v {
			t.AppendRow(table.Row{a.AthleteID, a.Firstname, a.Surname, a.Track, a.Road, a.XC, a.Sex, a.Club})
		}
		t.Render()
		fmt.Fprintf(w, "\nTotal: %d athletes\n", len(v))

	case *powerof10.AthleteProfile:
		writeProfile(w, v)

	case *powerof10.CoachSearchResult:
		if v.Kind == powerof10.CoachSingleMatch {
			fmt.Fprintf(w, "Only one coach found with athlete id: %s\n", v.AthleteID)
			return nil
		}
		if len(v.Coaches) == 0 {
			fmt.Fprintln(w, "No coaches found.")
			return nil
		}
		t := newTable(w, table.Row{"ID", "First", "Surname", "Sex", "Club"})
		for _, c := range v.Coaches {
			t.AppendRow(table.Row{c.AthleteID, c.Firstname, c.Surname, c.Sex, c.Club})
		}
		t.Render()
		fmt.Fprintf(w, "\nTotal: %d coaches\n", len(v.Coaches))

	case []powerof10.RankingListEntry:
		if len(v) == 0 {
			fmt.Fprintln(w, "No rankings found.")
			return nil
		}
		t := newTable(w, table.Row{"Rank", "Perf", "PB", "Name", "Year", "Coach", "Club", "Venue", "Date"})
		for _, r := range v {
			t.AppendRow(table.Row{r.Rank, r.Performance, r.PB, r.Name, r.Year, r.Coach, r.Club, r.Venue, r.Date})
		}
		t.Render()

	case []powerof10.MeetingSummary:
		if len(v) == 0 {
			fmt.Fprintln(w, "No meetings found.")
			return nil
		}
		t := newTable(w, table.Row{"ID", "Date", "Meeting", "Venue", "Type"})
		for _, m := range v {
			t.AppendRow(table.Row{m.MeetingID, m.Date, m.Meeting, m.Venue, m.Type})
		}
		t.Render()
		fmt.Fprintf(w, "\nTotal: %d meetings\n", len(v))

	case *powerof10.MeetingResult:
		writeMeeting(w, v)

	case Options:
		fmt.Fprintf(w, "Regions:       %s\n", strings.Join(v.Regions, ", "))
		fmt.Fprintf(w, "Meeting types: %s\n", joinStrings(v.MeetingTypes))
		fmt.Fprintf(w, "Terrains:      %s\n", joinStrings(v.Terrains))

	default:
		return fmt.Errorf("no text layout for %T", v)
	}
	return nil
}

func writeProfile(w io.Writer, p *powerof10.AthleteProfile) {
	t := newTable(w, nil)
	t.AppendRows([]table.Row{
		{"Club", p.Club},
		{"Gender", p.Gender},
		{"Age group", p.AgeGroup},
		{"County", p.County},
		{"Region", p.Region},
		{"Nation", p.Nation},
		{"Lead coach", p.LeadCoach},
	})
	t.Render()
	if p.About != "" {
		fmt.Fprintf(w, "\n%s\n", p.About)
	}

	if len(p.PersonalBests) > 0 {
		fmt.Fprintln(w, "\nBest performances:")
		t := newTable(w, table.Row{"Event", "PB"})
		for _, pb := range p.PersonalBests {
			t.AppendRow(table.Row{pb.Event, pb.Value})
		}
		t.Render()
	}
	if len(p.Rankings) > 0 {
		fmt.Fprintln(w, "\nRankings:")
		t := newTable(w, table.Row{"Event", "Age group", "Year", "Rank"})
		for _, r := range p.Rankings {
			t.AppendRow(table.Row{r.Event, r.AgeGroup, r.Year, r.Rank})
		}
		t.Render()
	}
	if len(p.Performances) > 0 {
		fmt.Fprintln(w, "\nPerformances:")
		t := newTable(w, table.Row{"Event", "Perf", "Pos", "Race", "Venue", "Meeting", "Date"})
		for _, perf := range p.Performances {
			t.AppendRow(table.Row{perf.Event, perf.Value, perf.Position.Place, perf.Position.Race, perf.Venue, perf.Meeting, perf.Date})
		}
		t.Render()
	}
	if len(p.Coaching) > 0 {
		fmt.Fprintln(w, "\nAthletes coached:")
		t := newTable(w, table.Row{"Name", "Club", "Age group", "Sex", "Best event", "Rank", "Rank age group", "Year", "Perf"})
		for _, c := range p.Coaching {
			t.AppendRow(table.Row{c.Name, c.Club, c.AgeGroup, c.Sex, c.BestEvent, c.Rank, c.AgeGroupRank, c.Year, c.Performance})
		}
		t.Render()
	}
	if len(p.Degraded) > 0 {
		fmt.Fprintf(w, "\nUnavailable sections: %s\n", strings.Join(p.Degraded, ", "))
	}
}

func writeMeeting(w io.Writer, m *powerof10.MeetingResult) {
	fmt.Fprintf(w, "%s\n%s\n%s\n", m.Title, m.Location, m.Date)
	for _, ev := range m.Events {
		fmt.Fprintf(w, "\n%s %s (race %s):\n", ev.Event, ev.AgeGroup, ev.Race)
		t := newTable(w, table.Row{"Pos", "Perf", "Name", "AG", "Sex", "Year", "Coach", "Club", "SB", "PB"})
		for _, r := range ev.Results {
			t.AppendRow(table.Row{r.Pos, r.Perf, r.Name, r.AgeGroup, r.Gender, r.Year, r.Coach, r.Club, r.SB, r.PB})
		}
		t.Render()
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(m.Events))
}

func joinStrings[S ~string](vals []S) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

// writeMetrics prints the request counters and timings gathered this run.
func writeMetrics(w io.Writer, snap logger.Snapshot) error {
	if len(snap.Counters) == 0 && len(snap.Timings) == 0 {
		return nil
	}
	t := newTable(w, table.Row{"Metric", "Count", "Avg", "Min", "Max"})

	names := make([]string, 0, len(snap.Timings))
	for name := range snap.Timings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := snap.Timings[name]
		t.AppendRow(table.Row{name, s.Count, s.Average, s.Min, s.Max})
	}

	names = names[:0]
	for name := range snap.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.AppendRow(table.Row{name, snap.Counters[name], "", "", ""})
	}
	t.Render()
	return nil
}

func (a *app) exportICS(meetings []powerof10.MeetingSummary, path string) error {
	ics, skipped := calendar.GenerateICS(meetings, "Power of 10 meetings", a.cfg.BaseURL)
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	logger.Info("calendar written", logger.Fields{
		"path":    path,
		"events":  len(meetings) - skipped,
		"skipped": skipped,
	})
	return nil
}
