package powerof10

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// MeetingType selects a meeting calendar or league in a meeting search.
type MeetingType string

const (
	MeetingUKCalendar    MeetingType = "UK Calendar"
	MeetingWorldCalendar MeetingType = "World Calendar"
	MeetingBMC           MeetingType = "BMC"
	MeetingNAL           MeetingType = "NAL"
	MeetingYDL           MeetingType = "YDL"
	MeetingSAL           MeetingType = "SAL"
	MeetingNEL           MeetingType = "NEL"
	MeetingMJL           MeetingType = "MJL"
)

// Terrain selects the surface or event family in a meeting search.
type Terrain string

const (
	TerrainAny            Terrain = "any"
	TerrainVirtual        Terrain = "virtual"
	TerrainDisability     Terrain = "disability"
	TerrainWalks          Terrain = "walks"
	TerrainMountain       Terrain = "mountain"
	TerrainFell           Terrain = "fell"
	TerrainRoadMultiXC    Terrain = "road/multi/xc"
	TerrainRoadMulti      Terrain = "road/multi"
	TerrainRoadStandard   Terrain = "5k/10k/hm/mar"
	TerrainXC             Terrain = "xc"
	TerrainMulti          Terrain = "multi"
	TerrainIndoor         Terrain = "indoor"
	TerrainRoad           Terrain = "road"
	TerrainTrack          Terrain = "track"
	TerrainTrackRoadAndXC Terrain = "track/10k/hm/mar/xc"
)

type queryPair struct {
	key   string
	value string
}

var meetingTypeParams = map[MeetingType]queryPair{
	MeetingUKCalendar:    {"ukcalendar", "y"},
	MeetingWorldCalendar: {"worldcalendar", "y"},
	MeetingBMC:           {"bmc", "y"},
	MeetingNAL:           {"meetingtypeid", "53"},
	MeetingYDL:           {"meetingtypeid", "45"},
	MeetingSAL:           {"meetingtypeid", "44"},
	MeetingNEL:           {"meetingtypeid", "26"},
	MeetingMJL:           {"meetingtypeid", "34"},
}

var terrainCodes = map[Terrain]string{
	TerrainAny:            "A",
	TerrainVirtual:        "V",
	TerrainDisability:     "D",
	TerrainWalks:          "W",
	TerrainMountain:       "H",
	TerrainFell:           "F",
	TerrainRoadMultiXC:    "RMX",
	TerrainRoadMulti:      "RM",
	TerrainRoadStandard:   "B",
	TerrainXC:             "X",
	TerrainMulti:          "M",
	TerrainIndoor:         "I",
	TerrainRoad:           "R",
	TerrainTrack:          "T",
	TerrainTrackRoadAndXC: "TIDEX",
}

// Keys are lower case; lookups fold the caller's input.
var regionAreaIDs = map[string]string{
	"east":          "66",
	"east midlands": "65",
	"england":       "91",
	"london":        "67",
	"north east":    "61",
	"north ireland": "94",
	"north west":    "63",
	"scotland":      "92",
	"south east":    "68",
	"south west":    "69",
	"wales":         "93",
	"west midlands": "64",
	"yorkshire":     "62",
}

// MeetingTypes returns the accepted meeting types in sorted order.
func MeetingTypes() []MeetingType {
	out := make([]MeetingType, 0, len(meetingTypeParams))
	for k := range meetingTypeParams {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terrains returns the accepted terrain keys in sorted order.
func Terrains() []Terrain {
	out := make([]Terrain, 0, len(terrainCodes))
	for k := range terrainCodes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Regions returns the accepted region names in sorted order.
func Regions() []string {
	out := make([]string, 0, len(regionAreaIDs))
	for k := range regionAreaIDs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RegionAreaID returns the site's numeric area id for a region name.
func RegionAreaID(region string) (string, bool) {
	id, ok := regionAreaIDs[strings.ToLower(strings.TrimSpace(region))]
	return id, ok
}

// closestRegion returns the known region most similar to name, or "" when
// nothing is close enough to be worth suggesting.
func closestRegion(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestScore := "", 0.0
	for _, region := range Regions() {
		score := matchr.JaroWinkler(name, region, false)
		if score > bestScore {
			best, bestScore = region, score
		}
	}
	if bestScore < 0.8 {
		return ""
	}
	return best
}
