// Package insights turns point swings and match subsets into short narrative
// text. Every function is pure and safe to call repeatedly.
package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/pable/eplswing/internal/model"
)

// Tunable thresholds, in league points.
const (
	SignificantSwing  = 10.0
	ModerateSwing     = 5.0
	BalancedThreshold = 3.0
)

// Band is one of the five movement narrative bands.
type Band string

const (
	SignificantUpswing   Band = "significant upswing"
	ModerateUpswing      Band = "moderate upswing"
	SignificantDownswing Band = "significant downswing"
	ModerateDownswing    Band = "moderate downswing"
	Modest               Band = "modest"
)

// Movement maps a signed points delta to its band. Thresholds are inclusive.
func Movement(delta float64) Band {
	switch {
	case delta >= SignificantSwing:
		return SignificantUpswing
	case delta >= ModerateSwing:
		return ModerateUpswing
	case delta <= -SignificantSwing:
		return SignificantDownswing
	case delta <= -ModerateSwing:
		return ModerateDownswing
	default:
		return Modest
	}
}

// MovementSentence renders Movement as a full sentence.
func MovementSentence(delta float64) string {
	switch b := Movement(delta); b {
	case SignificantUpswing, ModerateUpswing:
		return fmt.Sprintf("This was a %s over the previous season.", b)
	case SignificantDownswing, ModerateDownswing:
		return fmt.Sprintf("This was a %s from the previous season.", b)
	default:
		return "The overall points swing was modest."
	}
}

// Driver says whether a swing came from home form, away form, or both.
type Driver string

const (
	Balanced   Driver = "balanced"
	HomeDriven Driver = "home-driven"
	AwayDriven Driver = "away-driven"
)

// ClassifyDriver compares home and away point changes.
func ClassifyDriver(homeChange, awayChange float64) Driver {
	if math.Abs(homeChange-awayChange) <= BalancedThreshold {
		return Balanced
	}
	if math.Abs(homeChange) > math.Abs(awayChange) {
		return HomeDriven
	}
	return AwayDriven
}

// Breakdown decomposes one team's swing into home and away contributions.
type Breakdown struct {
	Team        string `json:"team"`
	Home1       int    `json:"home_season1"`
	Home2       int    `json:"home_season2"`
	Away1       int    `json:"away_season1"`
	Away2       int    `json:"away_season2"`
	HomeChange  int    `json:"home_change"`
	AwayChange  int    `json:"away_change"`
	TotalChange int    `json:"total_change"`
	Driver      Driver `json:"driver"`
}

// HomeAwayBreakdown looks up team in the venue split. ok is false unless the
// team has both a home and an away total in both seasons.
func HomeAwayBreakdown(split []model.VenuePoints, team string) (Breakdown, bool) {
	type cell struct {
		season string
		venue  model.Venue
	}
	cells := make(map[cell]int, 4)
	for _, vp := range split {
		if vp.Team == team {
			cells[cell{vp.Season, vp.Venue}] = vp.Points
		}
	}
	get := func(season string, v model.Venue) (int, bool) {
		p, ok := cells[cell{season, v}]
		return p, ok
	}

	b := Breakdown{Team: team}
	var ok1, ok2, ok3, ok4 bool
	b.Home1, ok1 = get(model.Season1, model.VenueHome)
	b.Home2, ok2 = get(model.Season2, model.VenueHome)
	b.Away1, ok3 = get(model.Season1, model.VenueAway)
	b.Away2, ok4 = get(model.Season2, model.VenueAway)
	if !(ok1 && ok2 && ok3 && ok4) {
		return Breakdown{}, false
	}

	b.HomeChange = b.Home2 - b.Home1
	b.AwayChange = b.Away2 - b.Away1
	b.TotalChange = b.HomeChange + b.AwayChange
	b.Driver = ClassifyDriver(float64(b.HomeChange), float64(b.AwayChange))
	return b, true
}

// DriverSentence describes a breakdown in one sentence.
func DriverSentence(b Breakdown) string {
	return fmt.Sprintf("For %s, home points changed by %+d (%d to %d) and away points changed by %+d (%d to %d). Overall this swing was %s.",
		b.Team, b.HomeChange, b.Home1, b.Home2, b.AwayChange, b.Away1, b.Away2, b.Driver)
}

// TeamDelta finds team's row in the delta table.
func TeamDelta(deltas []model.DeltaRow, team string) (model.DeltaRow, bool) {
	for _, d := range deltas {
		if d.Team == team {
			return d, true
		}
	}
	return model.DeltaRow{}, false
}

// StorySentence summarises a team's move between the two seasons. Teams that
// missed a season get a sentence saying so instead of a swing.
func StorySentence(d model.DeltaRow) string {
	if !d.HasDelta() {
		played := model.Season1
		if d.Season2Points != nil {
			played = model.Season2
		}
		return fmt.Sprintf("%s only played in %s, so there is no season-over-season swing.", d.Team, played)
	}
	return fmt.Sprintf("%s moved from %d points in %s to %d in %s (%+d). %s",
		d.Team, *d.Season1Points, model.Season1, *d.Season2Points, model.Season2,
		*d.Delta, MovementSentence(float64(*d.Delta)))
}

// MatchCallouts picks up to three matches that explain a team's season from
// an already filtered subset of its rows: the best win, the worst loss, and
// the latest close result that earned points, each at most once. When none of
// those exist it falls back to the three biggest margins. Empty input yields
// no callouts.
func MatchCallouts(rows []model.TeamMatch, team string) []string {
	if len(rows) == 0 {
		return nil
	}

	wins := filter(rows, func(r model.TeamMatch) bool { return r.Points == 3 })
	sort.SliceStable(wins, func(i, j int) bool {
		a, b := wins[i], wins[j]
		if a.GD != b.GD {
			return a.GD > b.GD
		}
		if a.GF != b.GF {
			return a.GF > b.GF
		}
		return a.Date.Before(b.Date)
	})

	losses := filter(rows, func(r model.TeamMatch) bool { return r.Points == 0 })
	sort.SliceStable(losses, func(i, j int) bool {
		a, b := losses[i], losses[j]
		if a.GD != b.GD {
			return a.GD < b.GD
		}
		if a.GA != b.GA {
			return a.GA > b.GA
		}
		return a.Date.Before(b.Date)
	})

	tight := filter(rows, func(r model.TeamMatch) bool { return absInt(r.GD) <= 1 && r.Points >= 1 })
	sort.SliceStable(tight, func(i, j int) bool { return tight[i].Date.After(tight[j].Date) })

	var picked []model.TeamMatch
	seen := make(map[string]struct{}, 3)
	for _, bucket := range [][]model.TeamMatch{wins, losses, tight} {
		for _, r := range bucket {
			if _, dup := seen[r.MatchID]; dup {
				continue
			}
			picked = append(picked, r)
			seen[r.MatchID] = struct{}{}
			break
		}
	}

	if len(picked) == 0 {
		picked = append([]model.TeamMatch(nil), rows...)
		sort.SliceStable(picked, func(i, j int) bool {
			a, b := picked[i], picked[j]
			if absInt(a.GD) != absInt(b.GD) {
				return absInt(a.GD) > absInt(b.GD)
			}
			return a.Date.Before(b.Date)
		})
		if len(picked) > 3 {
			picked = picked[:3]
		}
	}

	lines := make([]string, 0, len(picked))
	for _, r := range picked {
		lines = append(lines, fmt.Sprintf("%s: %s %d-%d %s %s (%s) was %s.",
			r.DateString(), team, r.GF, r.GA, r.Venue.Preposition(), r.Opponent, r.Venue, Reason(r.Points)))
	}
	return lines
}

// Reason labels a result by the points it earned.
func Reason(points int) string {
	switch points {
	case 3:
		return "a high-value win"
	case 1:
		return "a tight point"
	default:
		return "a costly loss"
	}
}

func filter(rows []model.TeamMatch, keep func(model.TeamMatch) bool) []model.TeamMatch {
	var out []model.TeamMatch
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
