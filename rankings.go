package powerof10

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/powerof10/internal/logger"
)

var rankingListSchema = newRowSchema("ranking list",
	textCol(0, func(r *RankingListEntry, v string) { r.Rank = v }),
	textCol(1, func(r *RankingListEntry, v string) { r.Performance = v }),
	textCol(4, func(r *RankingListEntry, v string) { r.PB = v }),
	textCol(6, func(r *RankingListEntry, v string) { r.Name = v }),
	refCol(6, func(r *RankingListEntry, v string) { r.AthleteID = v }),
	textCol(8, func(r *RankingListEntry, v string) { r.Year = v }),
	textCol(9, func(r *RankingListEntry, v string) { r.Coach = v }),
	textCol(10, func(r *RankingListEntry, v string) { r.Club = v }),
	textCol(11, func(r *RankingListEntry, v string) { r.Venue = v }),
	refParamCol(11, func(r *RankingListEntry, v string) { r.MeetingID = v }),
	textCol(12, func(r *RankingListEntry, v string) { r.Date = v }),
)

// GetRankings returns one ranking list. A list the site does not publish
// comes back empty.
func (c *Client) GetRankings(ctx context.Context, q RankingQuery) ([]RankingListEntry, error) {
	const op = "GetRankings"
	built, err := q.build()
	if err != nil {
		return nil, err
	}
	p, err := c.fetch(ctx, op, built)
	if err != nil {
		return nil, err
	}
	return extractRankings(p.doc, c.log.With(logger.Fields{"op": op}))
}

func extractRankings(doc *goquery.Document, log *logger.Logger) ([]RankingListEntry, error) {
	const op = "GetRankings"
	out := []RankingListEntry{}

	list := doc.Find("span#cphBody_lblCachedRankingList")
	if list.Length() == 0 {
		log.Info("no cached ranking list on page", nil)
		return out, nil
	}

	// The first two rows are the list title and column headings. Rows with
	// an empty rank or fewer cells are sub-headings and spacers.
	rows := list.Find("tr")
	for i := 2; i < rows.Length(); i++ {
		cells := cellsOf(rows.Eq(i))
		if len(cells) < rankingListSchema.width || cells[0].text == "" {
			continue
		}
		r, err := rankingListSchema.decode(op, cells)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	log.Debug("rankings extracted", logger.Fields{"count": len(out)})
	logger.AddCounter("extract."+op+".rows", int64(len(out)))
	return out, nil
}
