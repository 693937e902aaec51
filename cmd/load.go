package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/eplswing/internal/storage"
)

var loadForce bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Materialise the derived tables into the SQLite database",
	Long: `Parse both season files, derive the match log, team match log, season
summary, home/away split and delta tables, and store them for 'sql' queries.
Skipped when the database already holds tables for identical file contents.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "rewrite the tables even if the content hash is already stored")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	exists, err := db.DatasetExists(ds.Signature)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists && !loadForce {
		fmt.Fprintf(os.Stdout, "Dataset %s already stored in %s.\n", ds.Signature[:12], dbPath)
		return nil
	}

	if err := db.SaveDataset(ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	logger.Info("dataset stored", zap.String("db", dbPath), zap.String("signature", ds.Signature[:12]))

	fmt.Fprintf(os.Stdout, "Stored dataset %s: %d matches, %d team-match rows, %d teams.\n",
		ds.Signature[:12], len(ds.Matches), len(ds.TeamMatches), len(ds.Deltas))
	return nil
}
