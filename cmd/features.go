package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	"github.com/jfmyers9/scrobblemood/internal/features"
	"github.com/jfmyers9/scrobblemood/internal/history"
	"github.com/jfmyers9/scrobblemood/internal/store"
	"github.com/spf13/cobra"
)

var (
	featuresFrom           string
	featuresPairs          string
	featuresArtistColumn   string
	featuresTitleColumn    string
	featuresStudioOnly     bool
	featuresPause          time.Duration
	featuresPlacement      string
	featuresCallsPerMinute int
	featuresSearch         map[string]string
	featuresWorkers        int
	featuresOut            string
	featuresCSV            string
	featuresPreview        int
)

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Look up Echo Nest audio features for tracks",
	Long: `Search Echo Nest for each (artist, title) pair and collect the audio
summary of the best match: danceability, energy, liveness, loudness,
speechiness, tempo, mode, key, time_signature and duration.

Pairs come from a saved scrobbles snapshot (--from) or a CSV file with a
header row (--pairs). Repeated plays in a snapshot are looked up once; every
row of a --pairs file is looked up as given. Lookups that fail
or find no song are left out of the table and listed in the report.

Every lookup is followed (or preceded, see --pause-placement) by a fixed
pause to respect the service's rate limit.`,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresCmd.Flags().StringVar(&featuresFrom, "from", "", "Scrobbles snapshot to read pairs from")
	featuresCmd.Flags().StringVar(&featuresPairs, "pairs", "", "CSV file to read pairs from")
	featuresCmd.Flags().StringVar(&featuresArtistColumn, "artist-column", history.ColArtist, "Column holding the artist name")
	featuresCmd.Flags().StringVar(&featuresTitleColumn, "title-column", "", "Column holding the track title (default track_name for --from, title for --pairs)")
	featuresCmd.Flags().BoolVar(&featuresStudioOnly, "studio-only", true, "Only match studio recordings (default from config)")
	featuresCmd.Flags().DurationVar(&featuresPause, "pause", 0, "Pause taken around each lookup (default from config)")
	featuresCmd.Flags().StringVar(&featuresPlacement, "pause-placement", "", "Take the pause \"after\" or \"before\" each lookup (default from config)")
	featuresCmd.Flags().IntVar(&featuresCallsPerMinute, "calls-per-minute", 0, "Cap on lookups per minute across all workers (default from config)")
	featuresCmd.Flags().StringToStringVar(&featuresSearch, "search", nil, "Extra song/search parameters (key=value, repeatable)")
	featuresCmd.Flags().IntVarP(&featuresWorkers, "workers", "w", 0, "Parallel lookups (default from config, <= 0 means one per CPU)")
	featuresCmd.Flags().StringVarP(&featuresOut, "out", "o", "features.db", "Snapshot file to save the table to (empty to skip)")
	featuresCmd.Flags().StringVar(&featuresCSV, "csv", "", "Also write the table as CSV (\"-\" for stdout)")
	featuresCmd.Flags().IntVar(&featuresPreview, "preview", 5, "Rows to print when finished (0 to disable)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireEchoNest(); err != nil {
		return err
	}

	pairs, err := loadPairs(cmd)
	if err != nil {
		return err
	}

	overrides := echoNestOverrides{placement: featuresPlacement, callsPerMinute: featuresCallsPerMinute}
	if cmd.Flags().Changed("pause") {
		overrides.pause = &featuresPause
	}
	client, err := newEchoNestClient(overrides)
	if err != nil {
		return fmt.Errorf("failed to create Echo Nest client: %w", err)
	}

	studioOnly := cfg.EchoNest.StudioOnly
	if cmd.Flags().Changed("studio-only") {
		studioOnly = featuresStudioOnly
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = featuresWorkers
	}
	destination := cfg.ResolvePath(featuresOut)

	logger.Info().
		Int("pairs", len(pairs)).
		Int("workers", workers).
		Bool("studio_only", studioOnly).
		Msg("Looking up audio features")

	collector := features.NewCollector(client, logger)
	table, report, err := collector.Collect(cmd.Context(), pairs, features.Options{
		Workers:     workers,
		StudioOnly:  studioOnly,
		Extra:       featuresSearch,
		Destination: destination,
	})
	if err != nil {
		return fmt.Errorf("failed to collect features: %w", err)
	}

	if err := writeCSVTarget(table, featuresCSV); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	logger.Info().
		Int("requested", report.Requested).
		Int("succeeded", report.Succeeded).
		Int("dropped", report.Dropped).
		Str("snapshot", destination).
		Msg("Audio features collected")

	if featuresCSV == "-" {
		return nil
	}
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stdout, "dropped: %s - %s: %v\n", f.Artist, f.Title, f.Err)
	}
	return writePreview(os.Stdout, table, featuresPreview, previewColumnWidth)
}

// loadPairs reads the (artist, title) pairs named by --from or --pairs.
func loadPairs(cmd *cobra.Command) ([]features.Pair, error) {
	var (
		table    *dataset.Table
		titleCol = featuresTitleColumn
		distinct bool
	)

	switch {
	case featuresFrom != "" && featuresPairs != "":
		return nil, fmt.Errorf("--from and --pairs are mutually exclusive")
	case featuresFrom != "":
		snap, err := store.Load(cmd.Context(), cfg.ResolvePath(featuresFrom))
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		if snap.Kind != store.KindScrobbles {
			logger.Warn().Str("kind", string(snap.Kind)).Msg("Snapshot is not a scrobbles table")
		}
		table = snap.Table
		distinct = true
		if titleCol == "" {
			titleCol = history.ColTrackName
		}
	case featuresPairs != "":
		t, err := dataset.ReadCSV(featuresPairs)
		if err != nil {
			return nil, err
		}
		table = t
		if titleCol == "" {
			titleCol = "title"
		}
	default:
		return nil, fmt.Errorf("one of --from or --pairs is required")
	}

	var (
		pairs []features.Pair
		err   error
	)
	if distinct {
		pairs, err = features.PairsFromTable(table, featuresArtistColumn, titleCol)
	} else {
		pairs, err = features.PairsFromColumns(table, featuresArtistColumn, titleCol)
	}
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no (artist, title) pairs found")
	}
	return pairs, nil
}
