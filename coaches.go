package powerof10

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/powerof10/internal/logger"
)

var coachSummarySchema = newRowSchema("coach",
	textCol(0, func(c *CoachSummary, v string) { c.Firstname = v }),
	textCol(1, func(c *CoachSummary, v string) { c.Surname = v }),
	textCol(2, func(c *CoachSummary, v string) { c.Sex = v }),
	textCol(3, func(c *CoachSummary, v string) { c.Club = v }),
	refCol(4, func(c *CoachSummary, v string) { c.AthleteID = v }),
)

// SearchCoaches returns the coaches matching q. When exactly one coach
// matches, the site redirects to that profile and the result holds only
// its id. No matches is an empty list, not an error.
func (c *Client) SearchCoaches(ctx context.Context, q CoachQuery) (*CoachSearchResult, error) {
	const op = "SearchCoaches"
	built, err := q.build()
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}

	log := c.log.With(logger.Fields{"op": op})
	if p.redirected() {
		id := refID(p.finalURL.String())
		log.Info("single coach found", logger.Fields{"athlete_id": id})
		return &CoachSearchResult{Kind: CoachSingleMatch, AthleteID: id}, nil
	}
	return extractCoachSearch(p.doc, log)
}

func extractCoachSearch(doc *goquery.Document, log *logger.Logger) (*CoachSearchResult, error) {
	const op = "SearchCoaches"
	rows, msg, err := lookupRows(op, doc)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		// The same label carries both outcomes; only its wording tells them apart.
		if strings.Contains(strings.ToLower(msg), "too many") {
			return nil, broadQueryError(op, msg)
		}
		return nil, notFoundError(op, msg)
	}

	coaches := make([]CoachSummary, 0, len(rows))
	for _, row := range rows {
		s, err := coachSummarySchema.decode(op, cellsOf(row))
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, s)
	}
	log.Debug("coaches extracted", logger.Fields{"count": len(coaches)})
	logger.AddCounter("extract."+op+".rows", int64(len(coaches)))
	return &CoachSearchResult{Kind: CoachList, Coaches: coaches}, nil
}
