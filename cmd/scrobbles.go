package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/history"
	"github.com/spf13/cobra"
)

var (
	scrobblesUser           string
	scrobblesLimit          int
	scrobblesWorkers        int
	scrobblesOut            string
	scrobblesCSV            string
	scrobblesSort           bool
	scrobblesSkipNowPlaying bool
	scrobblesPreview        int
)

// scrobblesCmd represents the scrobbles command
var scrobblesCmd = &cobra.Command{
	Use:   "scrobbles",
	Short: "Export a user's complete Last.fm scrobble history",
	Long: `Download every page of a Last.fm user's recent tracks in parallel and
collect them into one table with the columns

  track_mbid, artist, artist_mbid, track_name, timestamp

Timestamps are UTC in "YYYY-MM-DD HH:MM:SS" form. Rows arrive in the
order pages complete unless --sort is given.

The table is saved as a snapshot file (--out) and optionally as CSV
(--csv, "-" for stdout).`,
	RunE: runScrobbles,
}

func init() {
	rootCmd.AddCommand(scrobblesCmd)

	scrobblesCmd.Flags().StringVarP(&scrobblesUser, "user", "u", "", "Last.fm user name (overrides config)")
	scrobblesCmd.Flags().IntVar(&scrobblesLimit, "limit", 0, "Tracks per page, max 1000 (default from config)")
	scrobblesCmd.Flags().IntVarP(&scrobblesWorkers, "workers", "w", 0, "Parallel page fetches (default from config, <= 0 means one per CPU)")
	scrobblesCmd.Flags().StringVarP(&scrobblesOut, "out", "o", "scrobbles.db", "Snapshot file to save the table to (empty to skip)")
	scrobblesCmd.Flags().StringVar(&scrobblesCSV, "csv", "", "Also write the table as CSV (\"-\" for stdout)")
	scrobblesCmd.Flags().BoolVar(&scrobblesSort, "sort", false, "Order rows oldest first")
	scrobblesCmd.Flags().BoolVar(&scrobblesSkipNowPlaying, "skip-now-playing", false, "Ignore a track that is currently playing instead of failing")
	scrobblesCmd.Flags().IntVar(&scrobblesPreview, "preview", 5, "Rows to print when finished (0 to disable)")
}

func runScrobbles(cmd *cobra.Command, args []string) error {
	if scrobblesUser != "" {
		cfg.LastFM.User = scrobblesUser
	}
	if err := cfg.RequireLastFM(); err != nil {
		return err
	}

	client, err := newLastFMClient()
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}

	limit := cfg.LastFM.PageLimit
	if cmd.Flags().Changed("limit") {
		limit = scrobblesLimit
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = scrobblesWorkers
	}
	destination := cfg.ResolvePath(scrobblesOut)

	logger.Info().
		Str("user", cfg.LastFM.User).
		Int("limit", limit).
		Int("workers", workers).
		Msg("Exporting scrobble history")

	start := time.Now()
	collector := history.NewCollector(client.User(), logger)
	table, err := collector.Collect(cmd.Context(), history.Options{
		User:           cfg.LastFM.User,
		Limit:          limit,
		Workers:        workers,
		Destination:    destination,
		SortByTime:     scrobblesSort,
		SkipNowPlaying: scrobblesSkipNowPlaying,
	})
	if err != nil {
		return fmt.Errorf("failed to export scrobbles: %w", err)
	}

	if err := writeCSVTarget(table, scrobblesCSV); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	logger.Info().
		Int("rows", table.Len()).
		Dur("elapsed", time.Since(start)).
		Str("snapshot", destination).
		Msg("Scrobble history exported")

	if scrobblesCSV == "-" {
		return nil
	}
	return writePreview(os.Stdout, table, scrobblesPreview, previewColumnWidth)
}
