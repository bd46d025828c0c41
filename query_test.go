package powerof10

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryStrings(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*query, error)
		want  string
	}{
		{
			name:  "athletes surname first",
			build: AthleteQuery{Firstname: "Yasser", Surname: "Qureshi"}.build,
			want:  "/athletes/athleteslookup.aspx?surname=Qureshi&firstname=Yasser",
		},
		{
			name:  "athlete club escaped",
			build: AthleteQuery{Club: "Sutton & District"}.build,
			want:  "/athletes/athleteslookup.aspx?club=Sutton+%26+District",
		},
		{
			name:  "coaches",
			build: CoachQuery{Surname: "Brown", Club: "Herne Hill"}.build,
			want:  "/coaches/coacheslookup.aspx?surname=Brown&club=Herne+Hill",
		},
		{
			name:  "rankings without region",
			build: RankingQuery{Year: "2022", Gender: "M", AgeGroup: "U20", Event: "400"}.build,
			want:  "/rankings/rankinglist.aspx?event=400&agegroup=U20&sex=M&year=2022",
		},
		{
			name:  "rankings region folds case",
			build: RankingQuery{Year: "2022", Gender: "W", AgeGroup: "ALL", Event: "10K", Region: "South East"}.build,
			want:  "/rankings/rankinglist.aspx?event=10K&agegroup=ALL&sex=W&year=2022&areaid=68",
		},
		{
			name: "meetings every filter",
			build: MeetingQuery{
				Event:       "400",
				Meeting:     "Surrey Champs",
				Venue:       "Kingston",
				DateFrom:    "1-Jan-2016",
				DateTo:      "31-Dec-2016",
				Year:        "2016",
				MeetingType: MeetingNAL,
				Terrain:     TerrainTrack,
			}.build,
			want: "/results/resultslookup.aspx?event=400&title=Surrey+Champs&venue=Kingston&datefrom=1-Jan-2016&dateto=31-Dec-2016&year=2016&meetingtypeid=53&terraintypecodes=T",
		},
		{
			name:  "meetings calendar flag",
			build: MeetingQuery{MeetingType: MeetingUKCalendar, Terrain: TerrainTrackRoadAndXC}.build,
			want:  "/results/resultslookup.aspx?ukcalendar=y&terraintypecodes=TIDEX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := tt.build()
			require.NoError(t, err)
			second, err := tt.build()
			require.NoError(t, err)

			if got := first.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			require.Equal(t, first.String(), second.String())
		})
	}
}

func TestQueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*query, error)
		wantMsg string
	}{
		{"athletes empty", AthleteQuery{}.build, "please input a firstname, surname or club"},
		{"athletes whitespace only", AthleteQuery{Surname: "   "}.build, "please input a firstname, surname or club"},
		{"coaches empty", CoachQuery{}.build, "please input a firstname, surname or club"},
		{"rankings missing event", RankingQuery{Year: "2022", Gender: "M", AgeGroup: "U20"}.build, "missing event"},
		{"rankings missing year", RankingQuery{Gender: "M", AgeGroup: "U20", Event: "400"}.build, "missing year"},
		{"rankings unknown region", RankingQuery{Year: "2022", Gender: "M", AgeGroup: "U20", Event: "400", Region: "atlantis"}.build, `unknown region "atlantis"`},
		{"rankings region guess", RankingQuery{Year: "2022", Gender: "M", AgeGroup: "U20", Event: "400", Region: "sotland"}.build, `did you mean "scotland"?`},
		{"meetings empty", MeetingQuery{}.build, "please input at least one search field"},
		{"meetings bad type", MeetingQuery{Year: "2016", MeetingType: "County League"}.build, "bad enum key"},
		{"meetings bad terrain", MeetingQuery{Year: "2016", Terrain: "beach"}.build, "bad enum key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.build()
			require.Nil(t, q)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrValidation), "got %v", err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestIDQuery(t *testing.T) {
	q, err := idQuery("GetAthlete", athleteProfilePath, "athleteid", " 522041 ")
	require.NoError(t, err)
	require.Equal(t, "/athletes/profile.aspx?athleteid=522041", q.String())

	_, err = idQuery("GetAthlete", athleteProfilePath, "athleteid", "")
	require.True(t, errors.Is(err, ErrValidation))
}

func TestRegionAreaID(t *testing.T) {
	tests := []struct {
		region string
		want   string
		ok     bool
	}{
		{"london", "67", true},
		{"LONDON", "67", true},
		{"  North Ireland ", "94", true},
		{"yorkshire", "62", true},
		{"middle earth", "", false},
	}
	for _, tt := range tests {
		got, ok := RegionAreaID(tt.region)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RegionAreaID(%q) = %q, %v, want %q, %v", tt.region, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClosestRegion(t *testing.T) {
	require.Equal(t, "scotland", closestRegion("sotland"))
	require.Equal(t, "", closestRegion("xyz"))
}

func TestEnumerationAccessors(t *testing.T) {
	require.Len(t, Regions(), 13)
	require.Len(t, MeetingTypes(), 8)
	require.Len(t, Terrains(), 15)
	require.IsIncreasing(t, Regions())

	// Callers get a copy.
	regions := Regions()
	regions[0] = "mutated"
	require.Equal(t, "east", Regions()[0])
}
