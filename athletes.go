package powerof10

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/powerof10/internal/logger"
)

const (
	resultsErrorID   = "cphBody_lblResultsErrorMessage"
	noAthletesFound  = "No athletes found. Use broader search terms or amend your queries."
	profileNotFound  = "Profile not found"
	loginPlaceholder = "Login to add some details about this athlete"
	clubListedMarker = "YesClub"
)

var athleteSummarySchema = newRowSchema("athlete",
	textCol(0, func(a *AthleteSummary, v string) { a.Firstname = v }),
	textCol(1, func(a *AthleteSummary, v string) { a.Surname = v }),
	textCol(2, func(a *AthleteSummary, v string) { a.Track = v }),
	textCol(3, func(a *AthleteSummary, v string) { a.Road = v }),
	textCol(4, func(a *AthleteSummary, v string) { a.XC = v }),
	textCol(5, func(a *AthleteSummary, v string) { a.Sex = v }),
	textCol(6, func(a *AthleteSummary, v string) { a.Club = v }),
	refCol(7, func(a *AthleteSummary, v string) { a.AthleteID = v }),
)

// SearchAthletes returns the athletes matching q. An empty result is a
// not-found error; the site's "too many results" message is a broad-query
// error.
func (c *Client) SearchAthletes(ctx context.Context, q AthleteQuery) ([]AthleteSummary, error) {
	const op = "SearchAthletes"
	built, err := q.build()
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}
	return extractAthleteSearch(p.doc, c.log.With(logger.Fields{"op": op}))
}

func extractAthleteSearch(doc *goquery.Document, log *logger.Logger) ([]AthleteSummary, error) {
	const op = "SearchAthletes"
	rows, msg, err := lookupRows(op, doc)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		log.Info("search too broad", logger.Fields{"message": msg})
		return nil, broadQueryError(op, msg)
	}

	athletes := make([]AthleteSummary, 0, len(rows))
	for _, row := range rows {
		a, err := athleteSummarySchema.decode(op, cellsOf(row))
		if err != nil {
			return nil, err
		}
		athletes = append(athletes, a)
	}
	if len(athletes) == 0 {
		return nil, notFoundError(op, noAthletesFound)
	}
	log.Debug("athletes extracted", logger.Fields{"count": len(athletes)})
	logger.AddCounter("extract."+op+".rows", int64(len(athletes)))
	return athletes, nil
}

// lookupRows returns the data rows of a lookup results panel, i.e. every
// row but the header and the trailing pager. When the first row carries
// the site's error label its text is returned instead.
func lookupRows(op string, doc *goquery.Document) ([]*goquery.Selection, string, error) {
	panel := doc.Find("div#cphBody_pnlResults")
	if panel.Length() == 0 {
		return nil, "", extractionError(op, "results panel not found")
	}
	trs := panel.Find("tr")
	if trs.Length() == 0 {
		return nil, "", nil
	}
	if first := trs.First(); first.Find("#"+resultsErrorID).Length() > 0 {
		return nil, cleanText(first.Text()), nil
	}
	var rows []*goquery.Selection
	for i := 1; i < trs.Length()-1; i++ {
		rows = append(rows, trs.Eq(i))
	}
	return rows, "", nil
}

// GetAthlete returns the profile page of one athlete.
func (c *Client) GetAthlete(ctx context.Context, athleteID string) (*AthleteProfile, error) {
	const op = "GetAthlete"
	built, err := idQuery(op, athleteProfilePath, "athleteid", athleteID)
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}
	return extractProfile(p.doc, c.log.With(logger.Fields{"op": op, "athlete_id": athleteID}))
}

func extractProfile(doc *goquery.Document, log *logger.Logger) (*AthleteProfile, error) {
	const op = "GetAthlete"
	if cleanText(strings.ReplaceAll(doc.Find("div#pnlMainGeneral").Text(), "\n", "")) == profileNotFound {
		return nil, notFoundError(op, "Profile not found. Please input a valid athlete id")
	}

	details := doc.Find("div#cphBody_pnlAthleteDetails").Find("table")
	if details.Length() < 2 {
		return nil, extractionError(op, "athlete details table not found")
	}
	parts := strings.Split(strings.ReplaceAll(details.Eq(1).Text(), "\n", ""), ":")
	profile, err := resolveDetails(op, parts)
	if err != nil {
		return nil, err
	}

	about := doc.Find("div#cphBody_pnlAbout").Find("table")
	if about.Length() < 2 {
		return nil, extractionError(op, "about table not found")
	}
	if text := about.Eq(1).Text(); !strings.Contains(text, loginPlaceholder) {
		profile.About = cleanText(text)
	}

	if profile.Coaching, err = extractCoaching(op, doc); err != nil {
		return nil, err
	}
	if profile.Rankings, err = extractProfileRankings(op, doc); err != nil {
		return nil, err
	}

	// The performance and best-performance panels vary the most between
	// profiles. Either one failing leaves that section empty.
	if profile.Performances, err = extractPerformances(op, doc); err != nil {
		log.Warn("performances unreadable", logger.Fields{"error": err.Error()})
		profile.Performances = []Performance{}
		profile.Degraded = append(profile.Degraded, "performances")
	}
	if profile.PersonalBests, err = extractPersonalBests(op, doc); err != nil {
		log.Warn("personal bests unreadable", logger.Fields{"error": err.Error()})
		profile.PersonalBests = []PersonalBest{}
		profile.Degraded = append(profile.Degraded, "pb")
	}

	log.Debug("profile extracted", logger.Fields{
		"pb":           len(profile.PersonalBests),
		"performances": len(profile.Performances),
		"rankings":     len(profile.Rankings),
		"coaching":     len(profile.Coaching),
	})
	return profile, nil
}

// The details block is one text blob split on ":", where each segment is a
// value followed by the next label. Club-listed profiles have an extra
// leading segment and no age group or lead coach.
var (
	clubListedDetails = newRowSchema("club-listed details",
		textCol(2, stripped("Gender", func(p *AthleteProfile, v string) { p.Club = v })),
		textCol(3, stripped("County", func(p *AthleteProfile, v string) { p.Gender = v })),
		textCol(4, stripped("Region", func(p *AthleteProfile, v string) { p.County = v })),
		textCol(5, stripped("Nation", func(p *AthleteProfile, v string) { p.Region = v })),
		textCol(6, stripped("Lead Coach", func(p *AthleteProfile, v string) { p.Nation = v })),
	)
	standardDetails = newRowSchema("details",
		textCol(1, stripped("Gender", func(p *AthleteProfile, v string) { p.Club = v })),
		textCol(2, stripped("Age Group", func(p *AthleteProfile, v string) { p.Gender = v })),
		textCol(3, stripped("County", func(p *AthleteProfile, v string) { p.AgeGroup = v })),
		textCol(4, stripped("Region", func(p *AthleteProfile, v string) { p.County = v })),
		textCol(5, stripped("Nation", func(p *AthleteProfile, v string) { p.Region = v })),
		textCol(6, stripped("Lead Coach", func(p *AthleteProfile, v string) { p.Nation = v })),
		optionalCol(textCol(7, func(p *AthleteProfile, v string) { p.LeadCoach = v })),
	)
)

// resolveDetails picks the details layout from the marker segment and
// decodes the profile header fields.
func resolveDetails(op string, parts []string) (*AthleteProfile, error) {
	if len(parts) < 2 {
		return nil, extractionError(op, "details block has %d segments", len(parts))
	}
	schema := standardDetails
	if cleanText(parts[1]) == clubListedMarker {
		schema = clubListedDetails
	}
	p, err := schema.decode(op, textCells(parts))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var coachingSchema = newRowSchema("coaching",
	textCol(0, func(r *CoachingRecord, v string) { r.Name = v }),
	textCol(1, func(r *CoachingRecord, v string) { r.Club = v }),
	textCol(2, func(r *CoachingRecord, v string) { r.AgeGroup = v }),
	textCol(3, func(r *CoachingRecord, v string) { r.Sex = v }),
	textCol(4, func(r *CoachingRecord, v string) { r.BestEvent = v }),
	textCol(5, func(r *CoachingRecord, v string) { r.Rank = v }),
	textCol(6, func(r *CoachingRecord, v string) { r.AgeGroupRank = v }),
	textCol(7, func(r *CoachingRecord, v string) { r.Year = v }),
	textCol(8, func(r *CoachingRecord, v string) { r.Performance = v }),
)

// extractCoaching reads the "athletes coached" panel, which only coaches have.
func extractCoaching(op string, doc *goquery.Document) ([]CoachingRecord, error) {
	out := []CoachingRecord{}
	panel := doc.Find("div#cphBody_pnlAthletesCoached")
	if panel.Length() == 0 {
		return out, nil
	}
	var err error
	panel.Find("table.alternatingrowspanel").First().Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := cellsOf(row)
		if len(cells) == 0 || cells[0].text == "Name" {
			return true
		}
		var r CoachingRecord
		if r, err = coachingSchema.decode(op, cells); err != nil {
			return false
		}
		out = append(out, r)
		return true
	})
	return out, err
}

var profileRankingSchema = newRowSchema("ranking",
	textCol(0, func(r *RankingEntry, v string) { r.Event = v }),
	textCol(2, func(r *RankingEntry, v string) { r.AgeGroup = v }),
	textCol(3, func(r *RankingEntry, v string) { r.Year = v }),
	textCol(4, func(r *RankingEntry, v string) { r.Rank = v }),
)

// extractProfileRankings reads the rankings table in the profile side
// column. Profiles without rankings have two or fewer tables there.
func extractProfileRankings(op string, doc *goquery.Document) ([]RankingEntry, error) {
	out := []RankingEntry{}
	column := doc.Find(`div#cphBody_pnlMain td[width="220"][valign="top"]`).First()
	if column.Length() == 0 {
		return nil, extractionError(op, "rankings column not found")
	}
	tables := column.Find("table")
	if tables.Length() <= 2 {
		return out, nil
	}
	var err error
	tables.Eq(2).Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := cellsOf(row)
		if len(cells) == 0 || cells[0].text == "Event" {
			return true
		}
		var r RankingEntry
		if r, err = profileRankingSchema.decode(op, cells); err != nil {
			return false
		}
		out = append(out, r)
		return true
	})
	return out, err
}

var performanceSchema = newRowSchema("performance",
	textCol(0, func(p *Performance, v string) { p.Event = v }),
	textCol(1, func(p *Performance, v string) { p.Value = v }),
	textCol(5, func(p *Performance, v string) { p.Position.Place = v }),
	textCol(6, func(p *Performance, v string) { p.Position.Race = v }),
	textCol(9, func(p *Performance, v string) { p.Venue = v }),
	textCol(10, func(p *Performance, v string) { p.Meeting = v }),
	textCol(11, func(p *Performance, v string) { p.Date = v }),
)

const performanceHeader = "EventPerfPosVenueMeetingDate"

func extractPerformances(op string, doc *goquery.Document) ([]Performance, error) {
	tables := doc.Find("div#cphBody_pnlPerformances").Find("table")
	if tables.Length() < 2 {
		return nil, extractionError(op, "performances table not found")
	}
	out := []Performance{}
	var err error
	tables.Eq(1).Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := cellsOf(row)
		// Year and section headings span the table in a single cell.
		if len(cells) <= 1 || strings.Join(strings.Fields(row.Text()), "") == performanceHeader {
			return true
		}
		var p Performance
		if p, err = performanceSchema.decode(op, cells); err != nil {
			return false
		}
		out = append(out, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func extractPersonalBests(op string, doc *goquery.Document) ([]PersonalBest, error) {
	panel := doc.Find("div#cphBody_divBestPerformances")
	if panel.Length() == 0 {
		return nil, extractionError(op, "best performances panel not found")
	}
	out := []PersonalBest{}
	var err error
	panel.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := row.Find("b").First()
		if label.Length() == 0 {
			err = extractionError(op, "best performance row has no event label")
			return false
		}
		event := cleanText(label.Text())
		if event == "Event" {
			return true
		}
		tds := row.Find("td")
		if tds.Length() < 2 {
			err = extractionError(op, "best performance row for %s has no value", event)
			return false
		}
		out = append(out, PersonalBest{Event: event, Value: cleanText(tds.Eq(1).Text())})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
