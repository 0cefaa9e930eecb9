package lastfm

import (
	"time"
)

// RecentTrack is one play from user.getRecentTracks.
type RecentTrack struct {
	TrackMBID  string    // MusicBrainz track ID, may be empty
	Artist     string    // Artist name
	ArtistMBID string    // MusicBrainz artist ID, may be empty
	Name       string    // Track name
	Timestamp  time.Time // When the track was played (UTC)
}

// RecentTracksRequest selects one page of a user's listening history.
type RecentTracksRequest struct {
	User  string // Required: Last.fm user name
	Limit int    // Page size (defaults to DefaultPageLimit)
	Page  int    // 1-based page index (defaults to 1)

	// SkipNowPlaying drops the track flagged nowplaying="true", which has
	// no <date> element. When false such a track is a schema error.
	SkipNowPlaying bool
}

const (
	// DefaultPageLimit is the page size used when a request leaves Limit unset.
	DefaultPageLimit = 500

	// MaxPageLimit is the largest page size Last.fm serves.
	MaxPageLimit = 1000
)
