package aggregator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pable/eplswing/internal/model"
)

// Normalize validates raw fixtures and derives points, goal totals and the
// match identifier. It fails on a result code outside H/D/A, on negative
// goals, and on any identifier seen twice across the combined input.
func Normalize(raw []model.RawFixture) ([]model.Match, error) {
	out := make([]model.Match, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		homePts, awayPts, ok := pointsFor(r.FTR)
		if !ok {
			return nil, &model.DataValidationError{Season: r.Season, Line: r.Line, Field: "FTR", Value: r.FTR}
		}
		if r.FTHG < 0 {
			return nil, &model.DataValidationError{Season: r.Season, Line: r.Line, Field: "FTHG", Value: strconv.Itoa(r.FTHG)}
		}
		if r.FTAG < 0 {
			return nil, &model.DataValidationError{Season: r.Season, Line: r.Line, Field: "FTAG", Value: strconv.Itoa(r.FTAG)}
		}

		m := model.Match{
			Season:     r.Season,
			Date:       r.Date,
			HomeTeam:   r.HomeTeam,
			AwayTeam:   r.AwayTeam,
			Referee:    r.Referee,
			FTHG:       r.FTHG,
			FTAG:       r.FTAG,
			FTR:        r.FTR,
			HomePoints: homePts,
			AwayPoints: awayPts,
			TotalGoals: r.FTHG + r.FTAG,
			GoalDiff:   r.FTHG - r.FTAG,
			HomeStats:  r.HomeStats,
			AwayStats:  r.AwayStats,
		}
		m.MatchID = MatchID(m.Season, m.DateString(), m.HomeTeam, m.AwayTeam)

		if _, dup := seen[m.MatchID]; dup {
			return nil, &model.DuplicateMatchError{MatchID: m.MatchID}
		}
		seen[m.MatchID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// MatchID joins season, ISO date, home team and away team with "|".
func MatchID(season, isoDate, home, away string) string {
	return strings.Join([]string{season, isoDate, home, away}, "|")
}

func pointsFor(ftr string) (home, away int, ok bool) {
	switch ftr {
	case model.ResultHome:
		return 3, 0, true
	case model.ResultDraw:
		return 1, 1, true
	case model.ResultAway:
		return 0, 3, true
	}
	return 0, 0, false
}

// Expand turns each match into two team-perspective rows. The result holds
// every home-perspective row in input order followed by every
// away-perspective row in input order.
func Expand(matches []model.Match) []model.TeamMatch {
	out := make([]model.TeamMatch, 0, 2*len(matches))
	for _, m := range matches {
		out = append(out, perspective(m, model.VenueHome))
	}
	for _, m := range matches {
		out = append(out, perspective(m, model.VenueAway))
	}
	return out
}

func perspective(m model.Match, v model.Venue) model.TeamMatch {
	r := model.TeamMatch{
		MatchID: m.MatchID,
		Season:  m.Season,
		Date:    m.Date,
		Referee: m.Referee,
		Venue:   v,
	}
	if v == model.VenueHome {
		r.Team, r.Opponent = m.HomeTeam, m.AwayTeam
		r.GF, r.GA = m.FTHG, m.FTAG
		r.Points = m.HomePoints
		r.SideStats = m.HomeStats
	} else {
		r.Team, r.Opponent = m.AwayTeam, m.HomeTeam
		r.GF, r.GA = m.FTAG, m.FTHG
		r.Points = m.AwayPoints
		r.SideStats = m.AwayStats
	}
	r.GD = r.GF - r.GA
	r.Win = r.Points == 3
	return r
}

type seasonTeam struct{ season, team string }

// Summarize groups team-match rows by (season, team). Matches counts distinct
// match identifiers. Rows come back sorted by season then team.
func Summarize(rows []model.TeamMatch) []model.TeamSeasonSummary {
	acc := make(map[seasonTeam]*model.TeamSeasonSummary)
	ids := make(map[seasonTeam]map[string]struct{})

	for _, r := range rows {
		k := seasonTeam{r.Season, r.Team}
		s, ok := acc[k]
		if !ok {
			s = &model.TeamSeasonSummary{Season: r.Season, Team: r.Team}
			acc[k] = s
			ids[k] = make(map[string]struct{})
		}
		s.Points += r.Points
		s.GF += r.GF
		s.GA += r.GA
		s.GD += r.GD
		if r.Win {
			s.Wins++
		}
		ids[k][r.MatchID] = struct{}{}
	}

	out := make([]model.TeamSeasonSummary, 0, len(acc))
	for k, s := range acc {
		s.Matches = len(ids[k])
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// VenueSplit sums points per (season, team, venue). Only combinations present
// in rows are returned, sorted by season, team, then venue name (Away before Home).
func VenueSplit(rows []model.TeamMatch) []model.VenuePoints {
	type key struct {
		season, team string
		venue        model.Venue
	}
	acc := make(map[key]int)
	for _, r := range rows {
		acc[key{r.Season, r.Team, r.Venue}] += r.Points
	}

	out := make([]model.VenuePoints, 0, len(acc))
	for k, pts := range acc {
		out = append(out, model.VenuePoints{Season: k.season, Team: k.team, Venue: k.venue, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.Venue.String() < b.Venue.String()
	})
	return out
}

// Deltas pivots the season summary to one row per team (sorted by name) and
// computes the Season2 − Season1 swing. A team missing either season gets a
// nil delta and no direction. The first team in name order holding the
// largest delta is the max riser; likewise the smallest delta marks the max
// faller. Both are flagged IsExtreme.
func Deltas(summary []model.TeamSeasonSummary) []model.DeltaRow {
	byTeam := make(map[string]*model.DeltaRow)
	for _, s := range summary {
		d, ok := byTeam[s.Team]
		if !ok {
			d = &model.DeltaRow{Team: s.Team}
			byTeam[s.Team] = d
		}
		pts := s.Points
		switch s.Season {
		case model.Season1:
			d.Season1Points = &pts
		case model.Season2:
			d.Season2Points = &pts
		}
	}

	out := make([]model.DeltaRow, 0, len(byTeam))
	for _, d := range byTeam {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })

	riser, faller := -1, -1
	for i := range out {
		d := &out[i]
		if d.Season1Points == nil || d.Season2Points == nil {
			continue
		}
		delta := *d.Season2Points - *d.Season1Points
		d.Delta = &delta
		if delta >= 0 {
			d.Direction = model.DirectionRise
		} else {
			d.Direction = model.DirectionFall
		}
		if riser < 0 || delta > *out[riser].Delta {
			riser = i
		}
		if faller < 0 || delta < *out[faller].Delta {
			faller = i
		}
	}
	if riser >= 0 {
		out[riser].IsMaxRiser = true
		out[riser].IsExtreme = true
		out[faller].IsMaxFaller = true
		out[faller].IsExtreme = true
	}
	return out
}

// Extremes picks the rows flagged as max riser and max faller. ok is false
// when either flag is absent.
func Extremes(deltas []model.DeltaRow) (riser, faller model.DeltaRow, ok bool) {
	var haveR, haveF bool
	for _, r := range deltas {
		if r.IsMaxRiser {
			riser, haveR = r, true
		}
		if r.IsMaxFaller {
			faller, haveF = r, true
		}
	}
	return riser, faller, haveR && haveF
}

// Ranked returns the rows with a delta, largest swing first. Equal deltas
// keep team-name order.
func Ranked(deltas []model.DeltaRow) []model.DeltaRow {
	var out []model.DeltaRow
	for _, d := range deltas {
		if d.HasDelta() {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].Delta != *out[j].Delta {
			return *out[i].Delta > *out[j].Delta
		}
		return out[i].Team < out[j].Team
	})
	return out
}
