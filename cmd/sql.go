package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/report"
	"github.com/pable/eplswing/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the materialised tables",
	Long: `Run an arbitrary SQL query against the database written by 'eplswing load'
and print results as a table.

Schema overview:
  matches(match_id, season, match_date, home_team, away_team, referee, fthg, ftag, ftr,
    home_points, away_points, total_goals, goal_diff, hs, hst, hf, hc, hy, hr, "as", ast, ...)
  team_matches(match_id, venue, season, match_date, team, opponent, referee,
    gf, ga, gd, points, win, shots, sot, fouls, corners, yellow, red)
  team_season_summary(season, team, points, gf, ga, gd, wins, matches)
  home_away_points(season, team, venue, points)
  delta_points(team, season1_points, season2_points, delta_points, direction,
    is_max_riser, is_max_faller, is_extreme)

Note: "as" is a keyword and must be quoted. Dates are TEXT in YYYY-MM-DD form.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	return printQuery(db, strings.Join(args, " "))
}

// printQuery runs query and renders the result. It is shared with the shell.
func printQuery(db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
