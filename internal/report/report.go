package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/eplswing/internal/insights"
	"github.com/pable/eplswing/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintExtremes prints the biggest riser and faller header.
func PrintExtremes(w io.Writer, riser, faller model.DeltaRow) {
	fmt.Fprintf(w, "\nBiggest riser: %s (%+d points)  |  Biggest faller: %s (%+d points)\n\n",
		riser.Team, *riser.Delta, faller.Team, *faller.Delta)
}

// PrintSwingTable prints ranked delta rows. If focus is non-empty, that
// team's row is marked with ">"; the max riser and faller are marked with "*".
func PrintSwingTable(w io.Writer, rows []model.DeltaRow, focus string) {
	table := newTable(w)
	table.Header(" ", "TEAM", model.Season1, model.Season2, "DELTA", "DIRECTION", "BAND", "EXTREME")

	for _, d := range rows {
		marker := " "
		if focus != "" && d.Team == focus {
			marker = ">"
		}
		delta, band := "—", "—"
		if d.Delta != nil {
			delta = fmt.Sprintf("%+d", *d.Delta)
			band = string(insights.Movement(float64(*d.Delta)))
		}
		extreme := ""
		switch {
		case d.IsMaxRiser && d.IsMaxFaller:
			extreme = "* riser/faller"
		case d.IsMaxRiser:
			extreme = "* riser"
		case d.IsMaxFaller:
			extreme = "* faller"
		}
		dir := string(d.Direction)
		if dir == "" {
			dir = "—"
		}
		table.Append(
			marker,
			d.Team,
			optInt(d.Season1Points),
			optInt(d.Season2Points),
			delta,
			dir,
			band,
			extreme,
		)
	}
	table.Render()
}

// PrintSeasonTable prints a season's summary rows as a league table.
func PrintSeasonTable(w io.Writer, season string, rows []model.TeamSeasonSummary, focus string) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", season)
	table := newTable(w)
	table.Header(" ", "POS", "TEAM", "P", "W", "GF", "GA", "GD", "PTS")
	for i, s := range rows {
		marker := " "
		if focus != "" && s.Team == focus {
			marker = ">"
		}
		table.Append(
			marker,
			strconv.Itoa(i+1),
			s.Team,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.GF),
			strconv.Itoa(s.GA),
			fmt.Sprintf("%+d", s.GD),
			strconv.Itoa(s.Points),
		)
	}
	table.Render()
}

// PrintHomeAwayTable prints home and away points per team for both seasons.
// Cells for a season the team did not play show "—".
func PrintHomeAwayTable(w io.Writer, split []model.VenuePoints, focus string) {
	type key struct {
		team, season string
		venue        model.Venue
	}
	cells := make(map[key]int, len(split))
	var teams []string
	seen := make(map[string]bool)
	for _, v := range split {
		cells[key{v.Team, v.Season, v.Venue}] = v.Points
		if !seen[v.Team] {
			seen[v.Team] = true
			teams = append(teams, v.Team)
		}
	}
	sort.Strings(teams)

	cell := func(team, season string, v model.Venue) string {
		p, ok := cells[key{team, season, v}]
		if !ok {
			return "—"
		}
		return strconv.Itoa(p)
	}

	table := newTable(w)
	table.Header(" ", "TEAM",
		"HOME "+model.Season1, "HOME "+model.Season2,
		"AWAY "+model.Season1, "AWAY "+model.Season2, "DRIVER")
	for _, team := range teams {
		marker := " "
		if focus != "" && team == focus {
			marker = ">"
		}
		driver := "—"
		if b, ok := insights.HomeAwayBreakdown(split, team); ok {
			driver = string(b.Driver)
		}
		table.Append(
			marker,
			team,
			cell(team, model.Season1, model.VenueHome),
			cell(team, model.Season2, model.VenueHome),
			cell(team, model.Season1, model.VenueAway),
			cell(team, model.Season2, model.VenueAway),
			driver,
		)
	}
	table.Render()
}

// PrintMatchTable prints team-match rows with score, points, shots and referee.
func PrintMatchTable(w io.Writer, rows []model.TeamMatch) {
	table := newTable(w)
	table.Header("DATE", "SEASON", "TEAM", "VENUE", "OPPONENT", "GF", "GA", "PTS", "SHOTS", "SOT", "REFEREE")
	for _, r := range rows {
		ref := r.Referee
		if ref == "" {
			ref = "—"
		}
		table.Append(
			r.DateString(),
			r.Season,
			r.Team,
			r.Venue.String(),
			r.Opponent,
			strconv.Itoa(r.GF),
			strconv.Itoa(r.GA),
			strconv.Itoa(r.Points),
			strconv.Itoa(r.Shots),
			strconv.Itoa(r.ShotsOnTarget),
			ref,
		)
	}
	table.Render()
}

// PrintCallouts prints callout lines as a bulleted list, or the empty-selection message.
func PrintCallouts(w io.Writer, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, NoMatchesMessage)
		return
	}
	for _, l := range lines {
		fmt.Fprintf(w, "  - %s\n", l)
	}
}

// PrintQueryResult renders a raw SQL result. An empty result hints at 'load',
// since the tables stay empty until a dataset has been stored.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows; run 'eplswing load' if the tables are empty)")
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

// NoMatchesMessage is shown when a selection contains no matches.
const NoMatchesMessage = "No matches are inside the current selection. Clear the filters or select a broader range."

func optInt(p *int) string {
	if p == nil {
		return "—"
	}
	return strconv.Itoa(*p)
}
