package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/report"
)

var tableFocus string

// tableCmd prints both league tables and the home/away split.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show season league tables and the home/away points split",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVar(&tableFocus, "team", "", "highlight a team")
}

func runTable(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	for _, season := range model.SeasonOrder {
		var rows []model.TeamSeasonSummary
		for _, s := range ds.Summary {
			if s.Season == season {
				rows = append(rows, s)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Points != rows[j].Points {
				return rows[i].Points > rows[j].Points
			}
			if rows[i].GD != rows[j].GD {
				return rows[i].GD > rows[j].GD
			}
			return rows[i].GF > rows[j].GF
		})
		report.PrintSeasonTable(os.Stdout, season, rows, tableFocus)
	}

	fmt.Fprintf(os.Stdout, "\n--- Home / Away points ---\n\n")
	report.PrintHomeAwayTable(os.Stdout, ds.HomeAway, tableFocus)
	return nil
}
