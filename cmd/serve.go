package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/eplswing/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the derived tables and insights as read-only JSON",
	Long: `Start an HTTP server for a charting front end.

Endpoints:
  GET /api/matches[?season=]          raw match log
  GET /api/team-matches[?filters]     team match log (team, season, venue,
                                      gf_min, gf_max, ga_min, ga_max, from, to)
  GET /api/summary                    team-season summary
  GET /api/home-away                  home/away split
  GET /api/deltas[?ranked=true]       delta table
  GET /api/teams                      teams with a delta
  GET /api/teams/{team}/story[?filters]  narrative, driver and callouts`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Fail fast on bad input files instead of on the first request.
	if _, err := loadDataset(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewServer(api.LoaderSource{Loader: loader, Sources: sources()}, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
