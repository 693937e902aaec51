package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/report"
)

var (
	matchesBrush brushFlags
	matchesLimit int
)

var matchesCmd = &cobra.Command{
	Use:   "matches [team]",
	Short: "List team-match rows, optionally for one team and selection",
	Args:  cobra.ArbitraryArgs,
	RunE:  runMatches,
}

func init() {
	matchesBrush.register(matchesCmd)
	matchesCmd.Flags().IntVar(&matchesLimit, "limit", 0, "show at most N rows (0 = all)")
}

func runMatches(cmd *cobra.Command, args []string) error {
	f, err := matchesBrush.filter(cmd)
	if err != nil {
		return err
	}
	f.Team = strings.Join(args, " ")

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	rows := dataset.Details(ds.Filter(f), matchesLimit)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, report.NoMatchesMessage)
		return nil
	}
	report.PrintMatchTable(os.Stdout, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
