package model

import (
	"fmt"
	"time"
)

// Season labels. The tool compares exactly two seasons.
const (
	Season1 = "2023-24"
	Season2 = "2024-25"
)

// SeasonOrder lists the compared seasons oldest first.
var SeasonOrder = []string{Season1, Season2}

// Venue is the side of a fixture a team played.
type Venue int

const (
	VenueUnknown Venue = 0
	VenueHome    Venue = 1
	VenueAway    Venue = 2
)

func (v Venue) String() string {
	switch v {
	case VenueHome:
		return "Home"
	case VenueAway:
		return "Away"
	default:
		return "?"
	}
}

// Preposition is the fixture connector used in narrative lines: "vs" at home, "at" away.
func (v Venue) Preposition() string {
	if v == VenueHome {
		return "vs"
	}
	return "at"
}

// ParseVenue maps "Home"/"Away" (as stored) back to a Venue.
func ParseVenue(s string) Venue {
	switch s {
	case "Home", "home", "H":
		return VenueHome
	case "Away", "away", "A":
		return VenueAway
	default:
		return VenueUnknown
	}
}

// MarshalText encodes the venue as "Home" or "Away".
func (v Venue) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText decodes "Home" or "Away".
func (v *Venue) UnmarshalText(b []byte) error {
	*v = ParseVenue(string(b))
	if *v == VenueUnknown {
		return fmt.Errorf("unknown venue %q", b)
	}
	return nil
}

// Full-time result codes.
const (
	ResultHome = "H"
	ResultDraw = "D"
	ResultAway = "A"
)

// Direction classifies a season-over-season swing.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionRise Direction = "Rise"
	DirectionFall Direction = "Fall"
)

// SideStats holds one side's match statistics.
type SideStats struct {
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"sot"`
	Fouls         int `json:"fouls"`
	Corners       int `json:"corners"`
	Yellow        int `json:"yellow"`
	Red           int `json:"red"`
}

// ---- Raw rows emitted by the parser ----

// RawFixture is one CSV row as read from a season file, before validation.
type RawFixture struct {
	Line      int // 1-based data row within its file (header excluded)
	Season    string
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	Referee   string
	FTHG      int
	FTAG      int
	FTR       string
	HomeStats SideStats
	AwayStats SideStats
}

// ---- Derived tables ----

// Match is a normalised fixture with derived scalar fields.
type Match struct {
	MatchID    string    `json:"match_id"`
	Season     string    `json:"season"`
	Date       time.Time `json:"date"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Referee    string    `json:"referee"`
	FTHG       int       `json:"fthg"`
	FTAG       int       `json:"ftag"`
	FTR        string    `json:"ftr"`
	HomePoints int       `json:"home_points"`
	AwayPoints int       `json:"away_points"`
	TotalGoals int       `json:"total_goals"`
	GoalDiff   int       `json:"goal_diff"`
	HomeStats  SideStats `json:"home_stats"`
	AwayStats  SideStats `json:"away_stats"`
}

// DateString formats the match date as YYYY-MM-DD.
func (m Match) DateString() string { return m.Date.Format("2006-01-02") }

// TeamMatch is one team's perspective on one fixture. MatchID refers back to
// the originating Match; rows may be copied and filtered freely.
type TeamMatch struct {
	MatchID  string    `json:"match_id"`
	Season   string    `json:"season"`
	Date     time.Time `json:"date"`
	Team     string    `json:"team"`
	Opponent string    `json:"opponent"`
	Referee  string    `json:"referee"`
	Venue    Venue     `json:"venue"`
	GF       int       `json:"gf"`
	GA       int       `json:"ga"`
	GD       int       `json:"gd"`
	Points   int       `json:"points"`
	Win      bool      `json:"win"`
	SideStats
}

// DateString formats the row date as YYYY-MM-DD.
func (r TeamMatch) DateString() string { return r.Date.Format("2006-01-02") }

// Score renders "GF-GA" from the team's perspective.
func (r TeamMatch) Score() string { return fmt.Sprintf("%d-%d", r.GF, r.GA) }

// TeamSeasonSummary aggregates one team's season.
type TeamSeasonSummary struct {
	Season  string `json:"season"`
	Team    string `json:"team"`
	Points  int    `json:"points"`
	GF      int    `json:"gf"`
	GA      int    `json:"ga"`
	GD      int    `json:"gd"`
	Wins    int    `json:"wins"`
	Matches int    `json:"matches"`
}

// VenuePoints is a team's points total at one venue in one season.
type VenuePoints struct {
	Season string `json:"season"`
	Team   string `json:"team"`
	Venue  Venue  `json:"venue"`
	Points int    `json:"points"`
}

// DeltaRow is a team's season-over-season swing. Nil pointers mean the team
// did not play that season; zero is a valid points total.
type DeltaRow struct {
	Team          string    `json:"team"`
	Season1Points *int      `json:"season1_points"`
	Season2Points *int      `json:"season2_points"`
	Delta         *int      `json:"delta_points"`
	Direction     Direction `json:"direction"`
	IsMaxRiser    bool      `json:"is_max_riser"`
	IsMaxFaller   bool      `json:"is_max_faller"`
	IsExtreme     bool      `json:"is_extreme"`
}

// HasDelta reports whether the team played both seasons.
func (d DeltaRow) HasDelta() bool { return d.Delta != nil }

// ---- Errors ----

// DataValidationError reports a field in a source row outside its allowed domain.
type DataValidationError struct {
	Season string
	Line   int
	Field  string
	Value  string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q (season %s, row %d)", e.Field, e.Value, e.Season, e.Line)
}

// DuplicateMatchError reports two fixtures producing the same match identifier.
type DuplicateMatchError struct {
	MatchID string
}

func (e *DuplicateMatchError) Error() string {
	return fmt.Sprintf("duplicate match id %q", e.MatchID)
}
