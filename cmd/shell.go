package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/eplswing/internal/aggregator"
	"github.com/pable/eplswing/internal/dataset"
	"github.com/pable/eplswing/internal/model"
	"github.com/pable/eplswing/internal/report"
	"github.com/pable/eplswing/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Explore the seasons interactively. The dataset is loaded once and reused. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	db, err := storage.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	if err := db.SaveDataset(ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	cGreeting.Println("eplswing shell")
	cMuted.Printf("%d matches, %d teams. type 'help' or 'exit'\n", len(ds.Matches), len(ds.Deltas))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("eplswing")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "swings":
			if err := shellSwings(os.Stdout, db); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "table":
			if err := shellTable(os.Stdout, db, ds); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "matches":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: matches <name>")
				continue
			}
			if err := shellMatches(os.Stdout, db, strings.Join(args, " ")); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "teams":
			cMuted.Println(strings.Join(ds.Teams(), ", "))
		case "team":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: team <name> [--season <label>] [--venue Home|Away]")
				continue
			}
			shellTeam(ds, args)
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(db, strings.Join(args, " ")); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"swings", "rank teams by points swing"},
		{"table", "season standings and home/away split"},
		{"matches <name>", "every stored match for one team"},
		{"teams", "list teams that played both seasons"},
		{"team <name>", "tell one team's story"},
		{"team <name> --season <label>", "same, callouts from one season only"},
		{"team <name> --venue Home|Away", "same, callouts from one venue only"},
		{"sql <query>", "query the derived tables"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// shellSwings ranks the swings stored for this session.
func shellSwings(w io.Writer, db *storage.DB) error {
	deltas, err := db.GetDeltas()
	if err != nil {
		return fmt.Errorf("read deltas: %w", err)
	}
	riser, faller, ok := aggregator.Extremes(deltas)
	if !ok {
		fmt.Fprintln(w, "No team played both seasons.")
		return nil
	}
	report.PrintExtremes(w, riser, faller)
	report.PrintSwingTable(w, aggregator.Ranked(deltas), "")
	return nil
}

// shellTable prints the stored standings for each season, then the venue split.
func shellTable(w io.Writer, db *storage.DB, ds *dataset.Dataset) error {
	for _, season := range model.SeasonOrder {
		rows, err := db.GetSeasonSummary(season)
		if err != nil {
			return fmt.Errorf("read %s summary: %w", season, err)
		}
		if len(rows) > 0 {
			report.PrintSeasonTable(w, season, rows, "")
		}
	}
	report.PrintHomeAwayTable(w, ds.HomeAway, "")
	return nil
}

func shellMatches(w io.Writer, db *storage.DB, team string) error {
	rows, err := db.GetTeamMatches(team)
	if err != nil {
		return fmt.Errorf("read matches: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, report.NoMatchesMessage)
		return nil
	}
	report.PrintMatchTable(w, rows)
	return nil
}

// shellTeam parses "name words... [--season X] [--venue Y]".
func shellTeam(ds *dataset.Dataset, args []string) {
	var name []string
	var f dataset.Filter
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--season":
			if i+1 < len(args) {
				f.Season = args[i+1]
				i++
			}
		case "--venue":
			if i+1 < len(args) {
				f.Venue = model.ParseVenue(args[i+1])
				if f.Venue == model.VenueUnknown {
					cError.Fprintf(os.Stderr, "invalid venue %q\n", args[i+1])
					return
				}
				i++
			}
		default:
			name = append(name, args[i])
		}
	}

	team := strings.Join(name, " ")
	st, ok := ds.Story(team, f)
	if !ok {
		cWarn.Fprintf(os.Stderr, "unknown team %q — type 'teams'\n", team)
		return
	}
	printStory(st)
}
