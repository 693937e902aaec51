package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
)

const dateLayout = "2006-01-02"

// DatasetExists returns true if a dataset with the given signature is already materialised.
func (db *DB) DatasetExists(signature string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets WHERE signature = ?", signature).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveDataset replaces the stored tables with ds in a single transaction.
// Only one dataset is kept; older signatures are removed.
func (db *DB) SaveDataset(ds *dataset.Dataset) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"team_matches", "matches", "team_season_summary", "home_away_points", "delta_points", "datasets"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertMatches(tx, ds.Matches); err != nil {
		return err
	}
	if err := insertTeamMatches(tx, ds.TeamMatches); err != nil {
		return err
	}
	if err := insertSummary(tx, ds.Summary); err != nil {
		return err
	}
	if err := insertHomeAway(tx, ds.HomeAway); err != nil {
		return err
	}
	if err := insertDeltas(tx, ds.Deltas); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO datasets(signature, loaded_at, matches) VALUES (?, ?, ?)`,
		ds.Signature, time.Now().UTC().Format(time.RFC3339), len(ds.Matches)); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return tx.Commit()
}

func insertMatches(tx *sql.Tx, matches []model.Match) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			match_id, season, match_date, home_team, away_team, referee,
			fthg, ftag, ftr, home_points, away_points, total_goals, goal_diff,
			hs, hst, hf, hc, hy, hr,
			"as", ast, af, ac, ay, ar
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		h, a := m.HomeStats, m.AwayStats
		_, err = stmt.Exec(
			m.MatchID, m.Season, m.DateString(), m.HomeTeam, m.AwayTeam, m.Referee,
			m.FTHG, m.FTAG, m.FTR, m.HomePoints, m.AwayPoints, m.TotalGoals, m.GoalDiff,
			h.Shots, h.ShotsOnTarget, h.Fouls, h.Corners, h.Yellow, h.Red,
			a.Shots, a.ShotsOnTarget, a.Fouls, a.Corners, a.Yellow, a.Red,
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}
	}
	return nil
}

func insertTeamMatches(tx *sql.Tx, rows []model.TeamMatch) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_matches(
			match_id, venue, season, match_date, team, opponent, referee,
			gf, ga, gd, points, win,
			shots, sot, fouls, corners, yellow, red
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.MatchID, r.Venue.String(), r.Season, r.DateString(), r.Team, r.Opponent, r.Referee,
			r.GF, r.GA, r.GD, r.Points, boolInt(r.Win),
			r.Shots, r.ShotsOnTarget, r.Fouls, r.Corners, r.Yellow, r.Red,
		)
		if err != nil {
			return fmt.Errorf("insert team_matches %s/%s: %w", r.MatchID, r.Venue, err)
		}
	}
	return nil
}

func insertSummary(tx *sql.Tx, rows []model.TeamSeasonSummary) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_season_summary(season, team, points, gf, ga, gd, wins, matches)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.Exec(s.Season, s.Team, s.Points, s.GF, s.GA, s.GD, s.Wins, s.Matches); err != nil {
			return fmt.Errorf("insert team_season_summary %s/%s: %w", s.Season, s.Team, err)
		}
	}
	return nil
}

func insertHomeAway(tx *sql.Tx, rows []model.VenuePoints) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO home_away_points(season, team, venue, points) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.Exec(v.Season, v.Team, v.Venue.String(), v.Points); err != nil {
			return fmt.Errorf("insert home_away_points %s/%s/%s: %w", v.Season, v.Team, v.Venue, err)
		}
	}
	return nil
}

func insertDeltas(tx *sql.Tx, rows []model.DeltaRow) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO delta_points(
			team, season1_points, season2_points, delta_points, direction,
			is_max_riser, is_max_faller, is_extreme
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range rows {
		_, err = stmt.Exec(
			d.Team, nullInt(d.Season1Points), nullInt(d.Season2Points), nullInt(d.Delta), string(d.Direction),
			boolInt(d.IsMaxRiser), boolInt(d.IsMaxFaller), boolInt(d.IsExtreme),
		)
		if err != nil {
			return fmt.Errorf("insert delta_points %s: %w", d.Team, err)
		}
	}
	return nil
}

// GetDeltas returns the stored delta table ordered by team.
func (db *DB) GetDeltas() ([]model.DeltaRow, error) {
	rows, err := db.conn.Query(`
		SELECT team, season1_points, season2_points, delta_points, direction,
		       is_max_riser, is_max_faller, is_extreme
		FROM delta_points ORDER BY team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DeltaRow
	for rows.Next() {
		var d model.DeltaRow
		var p1, p2, delta sql.NullInt64
		var dir string
		var riser, faller, extreme int
		if err := rows.Scan(&d.Team, &p1, &p2, &delta, &dir, &riser, &faller, &extreme); err != nil {
			return nil, err
		}
		d.Season1Points = intPtr(p1)
		d.Season2Points = intPtr(p2)
		d.Delta = intPtr(delta)
		d.Direction = model.Direction(dir)
		d.IsMaxRiser = riser != 0
		d.IsMaxFaller = faller != 0
		d.IsExtreme = extreme != 0
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetTeamMatches returns one team's rows ordered by date.
func (db *DB) GetTeamMatches(team string) ([]model.TeamMatch, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, venue, season, match_date, team, opponent, referee,
		       gf, ga, gd, points, win,
		       shots, sot, fouls, corners, yellow, red
		FROM team_matches WHERE team = ?
		ORDER BY match_date ASC`, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamMatch
	for rows.Next() {
		var r model.TeamMatch
		var venue, date string
		var win int
		if err := rows.Scan(
			&r.MatchID, &venue, &r.Season, &date, &r.Team, &r.Opponent, &r.Referee,
			&r.GF, &r.GA, &r.GD, &r.Points, &win,
			&r.Shots, &r.ShotsOnTarget, &r.Fouls, &r.Corners, &r.Yellow, &r.Red,
		); err != nil {
			return nil, err
		}
		r.Venue = model.ParseVenue(venue)
		r.Win = win != 0
		if r.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse match_date %q: %w", date, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSeasonSummary returns the summary rows for one season ordered by points desc.
func (db *DB) GetSeasonSummary(season string) ([]model.TeamSeasonSummary, error) {
	rows, err := db.conn.Query(`
		SELECT season, team, points, gf, ga, gd, wins, matches
		FROM team_season_summary WHERE season = ?
		ORDER BY points DESC, gd DESC, team ASC`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamSeasonSummary
	for rows.Next() {
		var s model.TeamSeasonSummary
		if err := rows.Scan(&s.Season, &s.Team, &s.Points, &s.GF, &s.GA, &s.GD, &s.Wins, &s.Matches); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
