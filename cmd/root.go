package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/eplswing/internal/dataset"
)

var (
	dbPath      string
	dataDir     string
	season1File string
	season2File string
	verbose     bool

	logger *zap.Logger
	loader *dataset.Loader
)

var rootCmd = &cobra.Command{
	Use:   "eplswing",
	Short: "Premier League season-swing storyteller",
	Long: `Compare two Premier League seasons team by team: who rose, who fell,
whether the swing came from home or away form, and which matches explain it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		loader = dataset.NewLoader(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".eplswing", "eplswing.db")
	defaultData := os.Getenv("EPLSWING_DATA")
	if defaultData == "" {
		defaultData = "data"
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	pf.StringVar(&dataDir, "data", defaultData, "directory holding the season files (env EPLSWING_DATA)")
	pf.StringVar(&season1File, "season1", "PL-season-2324.csv", "2023-24 results file (.csv, .csv.gz or .csv.zst)")
	pf.StringVar(&season2File, "season2", "PL-season-2425.csv", "2024-25 results file (.csv, .csv.gz or .csv.zst)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(swingsCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func sources() dataset.Sources {
	return dataset.Sources{
		Season1Path: resolve(season1File),
		Season2Path: resolve(season2File),
	}
}

func resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dataDir, name)
}

// loadDataset returns the derived tables, reading the files once per process.
func loadDataset() (*dataset.Dataset, error) {
	ds, err := loader.Session(sources())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
