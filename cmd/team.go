package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/report"
)

var teamBrush brushFlags

var teamCmd = &cobra.Command{
	Use:   "team <name>",
	Short: "Tell one team's story: swing, home/away driver and key matches",
	Long: `Print how a team's points changed between the seasons, whether the swing
was home-driven, away-driven or balanced, and up to three matches that explain
it. The selection flags narrow the matches used for the callouts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTeam,
}

func init() {
	teamBrush.register(teamCmd)
}

func runTeam(cmd *cobra.Command, args []string) error {
	team := strings.Join(args, " ")
	f, err := teamBrush.filter(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	st, ok := ds.Story(team, f)
	if !ok {
		return fmt.Errorf("unknown team %q (see 'eplswing swings --all')", team)
	}
	printStory(st)
	return nil
}

func printStory(st dataset.Story) {
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "=== %s ===\n\n", st.Team)
	fmt.Fprintln(os.Stdout, st.Sentence)
	if st.Breakdown != nil {
		fmt.Fprintln(os.Stdout, st.Driver)
	}

	fmt.Fprintln(os.Stdout)
	cHeader.Fprintln(os.Stdout, "--- Callouts ---")
	report.PrintCallouts(os.Stdout, st.Callouts)

	if len(st.Matches) > 0 {
		fmt.Fprintln(os.Stdout)
		cHeader.Fprintf(os.Stdout, "--- Matches (%d selected, first %d by date) ---\n\n", st.Selected, len(st.Matches))
		report.PrintMatchTable(os.Stdout, st.Matches)
	}
}
