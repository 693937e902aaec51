package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/report"
)

var (
	swingsAll   bool
	swingsFocus string
)

var swingsCmd = &cobra.Command{
	Use:   "swings",
	Short: "Rank teams by season-over-season points swing",
	Args:  cobra.NoArgs,
	RunE:  runSwings,
}

func init() {
	swingsCmd.Flags().BoolVar(&swingsAll, "all", false, "include promoted/relegated teams without a delta")
	swingsCmd.Flags().StringVar(&swingsFocus, "team", "", "highlight a team")
}

func runSwings(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	riser, faller, ok := ds.Extremes()
	if !ok {
		fmt.Fprintln(os.Stdout, "No team played both seasons; nothing to compare.")
		return nil
	}
	report.PrintExtremes(os.Stdout, riser, faller)

	rows := ds.Ranked()
	if swingsAll {
		for _, d := range ds.Deltas {
			if !d.HasDelta() {
				rows = append(rows, d)
			}
		}
	}
	report.PrintSwingTable(os.Stdout, rows, swingsFocus)
	return nil
}
