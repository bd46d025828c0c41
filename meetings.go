package powerof10

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/powerof10/internal/logger"
	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

var meetingTitleNoise = strings.NewReplacer("\n", "", "\r", "", "     ", "", "Info", "")

var meetingSummarySchema = newRowSchema("meeting",
	textCol(0, func(m *MeetingSummary, v string) { m.Date = v }),
	textCol(1, func(m *MeetingSummary, v string) { m.Meeting = cleanText(meetingTitleNoise.Replace(v)) }),
	textCol(2, func(m *MeetingSummary, v string) { m.Venue = v }),
	refCol(2, func(m *MeetingSummary, v string) { m.MeetingID = v }),
	textCol(3, func(m *MeetingSummary, v string) { m.Type = v }),
)

// SearchMeetings returns the meetings matching q. A page without a meetings
// table is a not-found error; a table with no rows is an empty list.
func (c *Client) SearchMeetings(ctx context.Context, q MeetingQuery) ([]MeetingSummary, error) {
	const op = "SearchMeetings"
	built, err := q.build()
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}
	return extractMeetingSearch(p.doc, c.log.With(logger.Fields{"op": op}))
}

func extractMeetingSearch(doc *goquery.Document, log *logger.Logger) ([]MeetingSummary, error) {
	const op = "SearchMeetings"
	table := doc.Find("table#cphBody_dgMeetings")
	if table.Length() == 0 {
		return nil, notFoundError(op, "No meetings found.")
	}

	out := []MeetingSummary{}
	var err error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := cellsOf(row)
		if len(cells) == 0 || cells[0].text == "Date" {
			return true
		}
		var m MeetingSummary
		if m, err = meetingSummarySchema.decode(op, cells); err != nil {
			return false
		}
		out = append(out, m)
		return true
	})
	if err != nil {
		return nil, err
	}
	log.Debug("meetings extracted", logger.Fields{"count": len(out)})
	logger.AddCounter("extract."+op+".rows", int64(len(out)))
	return out, nil
}

var resultRowSchema = newRowSchema("result",
	textCol(0, func(r *AthleteResultRow, v string) { r.Pos = v }),
	textCol(1, func(r *AthleteResultRow, v string) { r.Perf = v }),
	textCol(2, func(r *AthleteResultRow, v string) { r.Name = v }),
	refCol(2, func(r *AthleteResultRow, v string) { r.AthleteID = v }),
	textCol(4, func(r *AthleteResultRow, v string) { r.AgeGroup = v }),
	textCol(5, func(r *AthleteResultRow, v string) { r.Gender = v }),
	textCol(6, func(r *AthleteResultRow, v string) { r.Year = v }),
	textCol(7, func(r *AthleteResultRow, v string) { r.Coach = v }),
	textCol(8, func(r *AthleteResultRow, v string) { r.Club = v }),
	textCol(9, func(r *AthleteResultRow, v string) { r.SB = v }),
	textCol(10, func(r *AthleteResultRow, v string) { r.PB = v }),
)

// GetMeetingResults returns the header and every event block of one meeting.
func (c *Client) GetMeetingResults(ctx context.Context, meetingID string) (*MeetingResult, error) {
	const op = "GetMeetingResults"
	built, err := idQuery(op, meetingResultPath, "meetingid", meetingID)
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}
	return extractMeetingResults(p.doc, c.log.With(logger.Fields{"op": op, "meeting_id": meetingID}))
}

func extractMeetingResults(doc *goquery.Document, log *logger.Logger) (*MeetingResult, error) {
	const op = "GetMeetingResults"
	general := doc.Find("div#pnlMainGeneral")
	if text := strings.ReplaceAll(general.Text(), "\n", ""); strings.Contains(text, "Could not find meeting") ||
		strings.Contains(text, "No results found") {
		return nil, notFoundError(op, "Meeting not found. Please input a valid meeting id")
	}

	header := general.Find("table").First().Find("span").First()
	if header.Length() == 0 {
		return nil, extractionError(op, "meeting header not found")
	}
	meeting := &MeetingResult{Events: []EventResultBlock{}}
	meeting.Title, meeting.Location, meeting.Date = meetingHeader(header.Nodes[0])

	table := doc.Find("table#cphBody_dgP")
	if table.Length() == 0 {
		return nil, extractionError(op, "results table not found")
	}

	var current *EventResultBlock
	rows := table.Find("tr")
	for i := 1; i < rows.Length(); i++ {
		tds := rows.Eq(i).Find("td")
		if tds.Length() == 0 {
			continue
		}
		first := tds.First().Text()
		if strings.Contains(first, nbsp) {
			// Spacer rows and blank headings.
			continue
		}

		if tds.Length() == 1 {
			if cleanText(first) == "" {
				continue
			}
			meeting.Events = append(meeting.Events, eventHeader(first))
			current = &meeting.Events[len(meeting.Events)-1]
			continue
		}
		if strings.Contains(first, "Pos") {
			continue
		}
		if current == nil {
			return nil, extractionError(op, "result row %d precedes any event header", i)
		}
		r, err := resultRowSchema.decode(op, cellsOf(rows.Eq(i)))
		if err != nil {
			return nil, err
		}
		current.Results = append(current.Results, r)
	}

	log.Debug("meeting extracted", logger.Fields{"events": len(meeting.Events)})
	logger.AddCounter("extract."+op+".events", int64(len(meeting.Events)))
	return meeting, nil
}

// eventHeader parses "400 U20M 2" into event, age group and race. The race
// is "1" when the heading names none.
func eventHeader(text string) EventResultBlock {
	vals := strings.Split(cleanText(text), " ")
	block := EventResultBlock{Event: vals[0], Race: "1", Results: []AthleteResultRow{}}
	if len(vals) > 1 {
		block.AgeGroup = vals[1]
	}
	if len(vals) > 2 {
		block.Race = vals[2]
	}
	return block
}

// meetingHeader reads a span of the form <b>title</b><br>location<br>date.
func meetingHeader(span *html.Node) (title, location, date string) {
	var segments [3]bytes.Buffer
	seg := 0
	for c := span.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && c.Data == "br":
			seg++
		case c.Type == html.ElementNode && c.Data == "b" && title == "":
			title = cleanText(nodeText(c))
		case seg > 0 && seg < len(segments):
			segments[seg].WriteString(nodeText(c))
		}
	}
	return title, cleanText(segments[1].String()), cleanText(segments[2].String())
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(nodeText(c))
	}
	return buf.String()
}
