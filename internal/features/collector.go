// Package features looks up Echo Nest audio summaries for many tracks in
// parallel and assembles the successful lookups into a table.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	"github.com/jfmyers9/scrobblemood/internal/store"
	"github.com/jfmyers9/scrobblemood/internal/workers"
	"github.com/jfmyers9/scrobblemood/pkg/echonest"
	"github.com/rs/zerolog"
)

// Searcher looks up one song's audio summary.
type Searcher interface {
	SongSummary(ctx context.Context, q echonest.SongQuery) (echonest.Summary, error)
}

// Pair identifies one track to look up.
type Pair struct {
	Artist string
	Title  string
}

// Result is the outcome of one lookup: a summary or the reason there is
// none.
type Result struct {
	Pair
	Summary echonest.Summary
	Err     error
}

// OK reports whether the lookup produced a summary.
func (r Result) OK() bool {
	return r.Err == nil && r.Summary != nil
}

// Options controls one collection run.
type Options struct {
	Workers     int               // Pool size, <= 0 means one per CPU
	StudioOnly  bool              // Only studio recordings
	Extra       map[string]string // Additional search parameters
	Destination string            // Optional path to save the table to
}

// Report summarizes a run. Failures holds every dropped lookup.
type Report struct {
	Requested int
	Succeeded int
	Dropped   int
	Failures  []Result
}

// Collector fans song lookups out across a worker pool.
type Collector struct {
	searcher Searcher
	logger   zerolog.Logger
}

// NewCollector creates a Collector.
func NewCollector(searcher Searcher, logger zerolog.Logger) *Collector {
	return &Collector{
		searcher: searcher,
		logger:   logger.With().Str("component", "features").Logger(),
	}
}

// Pairs zips parallel artist and title slices.
func Pairs(artists, titles []string) ([]Pair, error) {
	if len(artists) != len(titles) {
		return nil, fmt.Errorf("got %d artists but %d titles", len(artists), len(titles))
	}
	pairs := make([]Pair, len(artists))
	for i := range artists {
		pairs[i] = Pair{Artist: artists[i], Title: titles[i]}
	}
	return pairs, nil
}

// PairsFromColumns zips two columns of t into one pair per row. Rows are
// kept as given, repeats included.
func PairsFromColumns(t *dataset.Table, artistCol, titleCol string) ([]Pair, error) {
	for _, col := range []string{artistCol, titleCol} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("table has no column %q", col)
		}
	}
	return Pairs(t.Values(artistCol), t.Values(titleCol))
}

// PairsFromTable reads distinct (artist, title) pairs from two columns of t
// in first-seen order.
func PairsFromTable(t *dataset.Table, artistCol, titleCol string) ([]Pair, error) {
	for _, col := range []string{artistCol, titleCol} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("table has no column %q", col)
		}
	}

	seen := make(map[Pair]bool)
	var pairs []Pair
	for _, r := range t.Rows {
		p := Pair{Artist: r[artistCol], Title: r[titleCol]}
		if p.Artist == "" || p.Title == "" || seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Collect looks up every pair and returns a table of the successful
// summaries. Failed lookups are left out of the table, logged, and listed
// in the report. Only context cancellation aborts the run.
func (c *Collector) Collect(ctx context.Context, pairs []Pair, opts Options) (*dataset.Table, Report, error) {
	report := Report{Requested: len(pairs)}

	n := workers.Resolve(opts.Workers, len(pairs))
	c.logger.Info().
		Int("tracks", len(pairs)).
		Int("workers", n).
		Bool("studio_only", opts.StudioOnly).
		Msg("Fetching audio summaries")

	start := time.Now()
	results, err := workers.Map(ctx, n, pairs, func(ctx context.Context, p Pair) (Result, error) {
		summary, err := c.searcher.SongSummary(ctx, echonest.SongQuery{
			Artist:     p.Artist,
			Title:      p.Title,
			StudioOnly: opts.StudioOnly,
			Extra:      opts.Extra,
		})
		if cerr := ctx.Err(); cerr != nil {
			return Result{}, cerr
		}
		return Result{Pair: p, Summary: summary, Err: err}, nil
	})
	if err != nil {
		return nil, report, fmt.Errorf("failed to fetch audio summaries: %w", err)
	}

	var rows []dataset.Row
	for _, res := range results {
		if !res.OK() {
			report.Failures = append(report.Failures, res)
			c.logger.Warn().
				Err(res.Err).
				Str("artist", res.Artist).
				Str("title", res.Title).
				Msg("Dropping track without audio summary")
			continue
		}
		rows = append(rows, toRow(res.Summary))
	}
	report.Succeeded = len(rows)
	report.Dropped = len(report.Failures)

	leading := append([]string{echonest.ParamArtist, echonest.ParamTitle}, echonest.FeatureKeys...)
	table := dataset.New(dataset.ColumnsFromRows(rows, leading...)...)
	for _, r := range rows {
		table.Append(r)
	}

	c.logger.Info().
		Int("rows", report.Succeeded).
		Int("dropped", report.Dropped).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched audio summaries")

	if opts.Destination != "" {
		if err := store.Save(ctx, opts.Destination, store.KindFeatures, table); err != nil {
			return nil, report, fmt.Errorf("failed to save audio summaries: %w", err)
		}
		c.logger.Info().Str("path", opts.Destination).Msg("Saved audio summaries")
	}

	return table, report, nil
}

func toRow(s echonest.Summary) dataset.Row {
	row := make(dataset.Row, len(s))
	for k, v := range s {
		row[k] = echonest.FormatValue(v)
	}
	return row
}
