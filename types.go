package powerof10

// AthleteSummary is one row of an athlete search.
type AthleteSummary struct {
	Firstname string `json:"firstname"`
	Surname   string `json:"surname"`
	Track     string `json:"track"`
	Road      string `json:"road"`
	XC        string `json:"xc"`
	Sex       string `json:"sex"`
	Club      string `json:"club"`
	AthleteID string `json:"athlete_id"`
}

// AthleteProfile is the detail page of one athlete.
type AthleteProfile struct {
	Club      string `json:"club"`
	Gender    string `json:"gender"`
	AgeGroup  string `json:"age_group,omitempty"`
	County    string `json:"county"`
	Region    string `json:"region"`
	Nation    string `json:"nation"`
	LeadCoach string `json:"lead_coach,omitempty"`
	About     string `json:"about,omitempty"`

	PersonalBests []PersonalBest   `json:"pb"`
	Performances  []Performance    `json:"performances"`
	Rankings      []RankingEntry   `json:"rankings"`
	Coaching      []CoachingRecord `json:"coaching"`

	// Degraded names the sections ("pb", "performances") that could not be
	// read and were left empty.
	Degraded []string `json:"degraded,omitempty"`
}

// PersonalBest is an athlete's best mark in one event.
type PersonalBest struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

// Position is a placing together with the race or heat it was achieved in.
type Position struct {
	Place string `json:"place"`
	Race  string `json:"race"`
}

// Performance is one result in an athlete's performance history.
type Performance struct {
	Event    string   `json:"event"`
	Value    string   `json:"value"`
	Position Position `json:"position"`
	Venue    string   `json:"venue"`
	Meeting  string   `json:"meeting"`
	Date     string   `json:"date"`
}

// RankingEntry is a ranking position shown on an athlete profile.
type RankingEntry struct {
	Event    string `json:"event"`
	AgeGroup string `json:"age_group"`
	Year     string `json:"year"`
	Rank     string `json:"rank"`
}

// CoachingRecord is an athlete listed on a coach's profile.
type CoachingRecord struct {
	Name         string `json:"name"`
	Club         string `json:"club"`
	AgeGroup     string `json:"age_group"`
	Sex          string `json:"sex"`
	BestEvent    string `json:"best_event"`
	Rank         string `json:"rank"`
	AgeGroupRank string `json:"age_group_rank"`
	Year         string `json:"year"`
	Performance  string `json:"performance"`
}

// CoachSummary is one row of a coach search.
type CoachSummary struct {
	Firstname string `json:"firstname"`
	Surname   string `json:"surname"`
	Sex       string `json:"sex"`
	Club      string `json:"club"`
	AthleteID string `json:"athlete_id"`
}

// CoachSearchKind tells which field of a CoachSearchResult is set.
type CoachSearchKind int

const (
	// CoachList: Coaches holds the matching rows, possibly none.
	CoachList CoachSearchKind = iota
	// CoachSingleMatch: the site redirected straight to one profile and
	// AthleteID holds its id.
	CoachSingleMatch
)

func (k CoachSearchKind) String() string {
	if k == CoachSingleMatch {
		return "single_match"
	}
	return "list"
}

func (k CoachSearchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CoachSearchResult is a coach list, or the athlete id when the site
// redirected straight to the only match.
type CoachSearchResult struct {
	Kind      CoachSearchKind `json:"kind"`
	AthleteID string          `json:"athlete_id,omitempty"`
	Coaches   []CoachSummary  `json:"coaches,omitempty"`
}

// MeetingSummary is one row of a meeting search.
type MeetingSummary struct {
	Date      string `json:"date"`
	Meeting   string `json:"meeting"`
	Venue     string `json:"venue"`
	Type      string `json:"type"`
	MeetingID string `json:"meeting_id"`
}

// MeetingResult is the results page of one meeting.
type MeetingResult struct {
	Title    string             `json:"title"`
	Location string             `json:"location"`
	Date     string             `json:"date"`
	Events   []EventResultBlock `json:"results"`
}

// EventResultBlock groups the rows under one event header such as "400 U20M 2".
type EventResultBlock struct {
	Event    string             `json:"event"`
	AgeGroup string             `json:"age_group"`
	Race     string             `json:"race"`
	Results  []AthleteResultRow `json:"results"`
}

// AthleteResultRow is one athlete's result within an event block.
type AthleteResultRow struct {
	Pos       string `json:"pos"`
	Perf      string `json:"perf"`
	Name      string `json:"name"`
	AthleteID string `json:"athlete_id"`
	AgeGroup  string `json:"age_group"`
	Gender    string `json:"gender"`
	Year      string `json:"year"`
	Coach     string `json:"coach"`
	Club      string `json:"club"`
	SB        string `json:"sb"`
	PB        string `json:"pb"`
}

// RankingListEntry is one row of a ranking list.
type RankingListEntry struct {
	Rank        string `json:"rank"`
	Performance string `json:"performance"`
	PB          string `json:"pb"`
	Name        string `json:"name"`
	Year        string `json:"year"`
	Coach       string `json:"coach"`
	Club        string `json:"club"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	AthleteID   string `json:"athlete_id"`
	MeetingID   string `json:"meeting_id"`
}
