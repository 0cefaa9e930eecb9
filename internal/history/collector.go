// Package history exports a user's complete Last.fm listening history into
// a single table by fetching every page in parallel.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	"github.com/jfmyers9/scrobblemood/internal/store"
	"github.com/jfmyers9/scrobblemood/internal/workers"
	"github.com/jfmyers9/scrobblemood/pkg/lastfm"
	"github.com/rs/zerolog"
)

// Table columns, in order.
const (
	ColTrackMBID  = "track_mbid"
	ColArtist     = "artist"
	ColArtistMBID = "artist_mbid"
	ColTrackName  = "track_name"
	ColTimestamp  = "timestamp"
)

// Columns is the fixed column set of a scrobble table.
var Columns = []string{ColTrackMBID, ColArtist, ColArtistMBID, ColTrackName, ColTimestamp}

// Pager is the subset of the Last.fm user service the collector needs.
type Pager interface {
	TotalPages(ctx context.Context, user string, limit int) (int, error)
	RecentTracksPage(ctx context.Context, req lastfm.RecentTracksRequest) ([]lastfm.RecentTrack, error)
}

// Options controls one collection run.
type Options struct {
	User    string // Last.fm user name
	Limit   int    // Page size, <= 0 means lastfm.DefaultPageLimit
	Workers int    // Pool size, <= 0 means one per CPU

	// Destination, when set, is the path the table is saved to.
	Destination string

	// SortByTime orders rows oldest first. Without it rows follow the
	// order pages finished in.
	SortByTime bool

	// SkipNowPlaying ignores the in-progress track on the first page.
	SkipNowPlaying bool
}

// Collector turns a paged listening history into one table.
type Collector struct {
	pager  Pager
	logger zerolog.Logger
}

// NewCollector creates a Collector.
func NewCollector(pager Pager, logger zerolog.Logger) *Collector {
	return &Collector{
		pager:  pager,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// Collect fetches every page of opts.User's history and returns it as one
// table. Any failed page aborts the run.
func (c *Collector) Collect(ctx context.Context, opts Options) (*dataset.Table, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = lastfm.DefaultPageLimit
	}

	totalPages, err := c.pager.TotalPages(ctx, opts.User, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page count: %w", err)
	}
	if totalPages < 0 {
		return nil, fmt.Errorf("invalid page count %d", totalPages)
	}

	pages := make([]int, totalPages)
	for i := range pages {
		pages[i] = i + 1
	}

	n := workers.Resolve(opts.Workers, len(pages))
	c.logger.Info().
		Str("user", opts.User).
		Int("limit", limit).
		Int("pages", totalPages).
		Int("workers", n).
		Msg("Fetching listening history")

	start := time.Now()
	perPage, err := workers.Map(ctx, n, pages, func(ctx context.Context, page int) ([]lastfm.RecentTrack, error) {
		tracks, err := c.pager.RecentTracksPage(ctx, lastfm.RecentTracksRequest{
			User:           opts.User,
			Limit:          limit,
			Page:           page,
			SkipNowPlaying: opts.SkipNowPlaying,
		})
		if err != nil {
			return nil, err
		}
		c.logger.Debug().Int("page", page).Int("tracks", len(tracks)).Msg("Fetched page")
		return tracks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	table := dataset.New(Columns...)
	for _, tracks := range perPage {
		for _, tr := range tracks {
			table.Append(ToRow(tr))
		}
	}

	if opts.SortByTime {
		if err := table.SortByTime(ColTimestamp); err != nil {
			return nil, fmt.Errorf("failed to sort history: %w", err)
		}
	}

	c.logger.Info().
		Int("rows", table.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched listening history")

	if opts.Destination != "" {
		if err := store.Save(ctx, opts.Destination, store.KindScrobbles, table); err != nil {
			return nil, fmt.Errorf("failed to save history: %w", err)
		}
		c.logger.Info().Str("path", opts.Destination).Msg("Saved history")
	}

	return table, nil
}

// ToRow converts a track into a scrobble table row.
func ToRow(tr lastfm.RecentTrack) dataset.Row {
	return dataset.Row{
		ColTrackMBID:  tr.TrackMBID,
		ColArtist:     tr.Artist,
		ColArtistMBID: tr.ArtistMBID,
		ColTrackName:  tr.Name,
		ColTimestamp:  tr.Timestamp.UTC().Format(dataset.TimeLayout),
	}
}
