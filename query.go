package powerof10

import (
	"net/url"
	"strings"
)

const (
	athleteLookupPath  = "/athletes/athleteslookup.aspx"
	athleteProfilePath = "/athletes/profile.aspx"
	coachLookupPath    = "/coaches/coacheslookup.aspx"
	rankingListPath    = "/rankings/rankinglist.aspx"
	meetingLookupPath  = "/results/resultslookup.aspx"
	meetingResultPath  = "/results/results.aspx"
)

// query is an endpoint path plus query parameters in insertion order.
type query struct {
	path   string
	params []queryPair
}

func newQuery(path string) *query {
	return &query{path: path}
}

// add appends key=value unless value is empty. Values are form-escaped, so
// interior spaces become "+".
func (q *query) add(key, value string) *query {
	value = strings.TrimSpace(value)
	if value == "" {
		return q
	}
	q.params = append(q.params, queryPair{key, url.QueryEscape(value)})
	return q
}

// addPair appends a fixed pair taken from an enumeration table.
func (q *query) addPair(p queryPair) *query {
	q.params = append(q.params, p)
	return q
}

func (q *query) empty() bool {
	return len(q.params) == 0
}

// String renders path?k=v&k=v with parameters in the order they were added.
func (q *query) String() string {
	if len(q.params) == 0 {
		return q.path
	}
	var b strings.Builder
	b.WriteString(q.path)
	b.WriteByte('?')
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

// AthleteQuery filters an athlete search. At least one field must be set.
type AthleteQuery struct {
	Firstname string
	Surname   string
	Club      string
}

func (q AthleteQuery) build() (*query, error) {
	out := personLookup(athleteLookupPath, q.Firstname, q.Surname, q.Club)
	if out.empty() {
		return nil, validationError("SearchAthletes", "please input a firstname, surname or club")
	}
	return out, nil
}

// CoachQuery filters a coach search. At least one field must be set.
type CoachQuery struct {
	Firstname string
	Surname   string
	Club      string
}

func (q CoachQuery) build() (*query, error) {
	out := personLookup(coachLookupPath, q.Firstname, q.Surname, q.Club)
	if out.empty() {
		return nil, validationError("SearchCoaches", "please input a firstname, surname or club")
	}
	return out, nil
}

func personLookup(path, firstname, surname, club string) *query {
	return newQuery(path).
		add("surname", surname).
		add("firstname", firstname).
		add("club", club)
}

// RankingQuery selects one ranking list. Year, Gender, AgeGroup and Event are
// required; Region narrows the list to one of Regions().
type RankingQuery struct {
	Year     string
	Gender   string
	AgeGroup string
	Event    string
	Region   string
}

func (q RankingQuery) build() (*query, error) {
	const op = "GetRankings"
	for _, f := range []struct{ name, value string }{
		{"year", q.Year},
		{"gender", q.Gender},
		{"age group", q.AgeGroup},
		{"event", q.Event},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, validationError(op, "please ensure all search fields are filled: missing %s", f.name)
		}
	}

	out := newQuery(rankingListPath).
		add("event", q.Event).
		add("agegroup", q.AgeGroup).
		add("sex", q.Gender).
		add("year", q.Year)

	if strings.TrimSpace(q.Region) != "" {
		areaID, ok := RegionAreaID(q.Region)
		if !ok {
			if guess := closestRegion(q.Region); guess != "" {
				return nil, validationError(op, "unknown region %q (did you mean %q?)", q.Region, guess)
			}
			return nil, validationError(op, "unknown region %q", q.Region)
		}
		out.add("areaid", areaID)
	}
	return out, nil
}

// MeetingQuery filters a meeting search. At least one field must be set.
// Dates are passed through as typed, e.g. "1-Jan-2016".
type MeetingQuery struct {
	Event       string
	Meeting     string
	Venue       string
	DateFrom    string
	DateTo      string
	Year        string
	MeetingType MeetingType
	Terrain     Terrain
}

func (q MeetingQuery) build() (*query, error) {
	const op = "SearchMeetings"
	out := newQuery(meetingLookupPath).
		add("event", q.Event).
		add("title", q.Meeting).
		add("venue", q.Venue).
		add("datefrom", q.DateFrom).
		add("dateto", q.DateTo).
		add("year", q.Year)

	if q.MeetingType != "" {
		pair, ok := meetingTypeParams[q.MeetingType]
		if !ok {
			return nil, validationError(op, "bad enum key: unknown meeting type %q", q.MeetingType)
		}
		out.addPair(pair)
	}
	if q.Terrain != "" {
		code, ok := terrainCodes[q.Terrain]
		if !ok {
			return nil, validationError(op, "bad enum key: unknown terrain %q", q.Terrain)
		}
		out.addPair(queryPair{"terraintypecodes", code})
	}

	if out.empty() {
		return nil, validationError(op, "please input at least one search field")
	}
	return out, nil
}

func idQuery(op, path, key, id string) (*query, error) {
	out := newQuery(path).add(key, id)
	if out.empty() {
		return nil, validationError(op, "please input a valid %s", key)
	}
	return out, nil
}
