package lastfm

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

// UserService provides read access to user data on the Last.fm API.
type UserService struct {
	client *Client
}

const methodRecentTracks = "user.getrecenttracks"

// TotalPages reports how many pages of recent tracks exist for user at the
// given page size.
//
// Page count depends on limit, so callers must use the same limit for the
// page requests that follow. A limit <= 0 means DefaultPageLimit.
//
// Example:
//
//	pages, err := client.User().TotalPages(ctx, "rj", 500)
//	if err != nil {
//	    log.Fatal(err)
//	}
func (s *UserService) TotalPages(ctx context.Context, user string, limit int) (int, error) {
	if user == "" {
		return 0, fmt.Errorf("lastfm: user is required")
	}

	root, err := s.client.call(ctx, methodRecentTracks, map[string]string{
		"user":  user,
		"limit": strconv.Itoa(normalizeLimit(limit)),
	})
	if err != nil {
		return 0, err
	}

	return ParseTotalPages(root)
}

// ParseTotalPages reads recenttracks@totalPages from a response document.
func ParseTotalPages(root *xmlfetch.Node) (int, error) {
	recent := root.Find("recenttracks")
	if recent == nil {
		return 0, &xmlfetch.SchemaError{Element: root.Name(), Field: "recenttracks"}
	}

	raw, err := recent.RequireAttr("totalPages")
	if err != nil {
		return 0, err
	}

	pages, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("lastfm: totalPages %q is not an integer: %w", raw,
			&xmlfetch.SchemaError{Element: "recenttracks", Field: "@totalPages"})
	}
	if pages < 0 {
		return 0, fmt.Errorf("lastfm: totalPages %d is negative: %w", pages,
			&xmlfetch.SchemaError{Element: "recenttracks", Field: "@totalPages"})
	}

	return pages, nil
}

// RecentTracksPage fetches and parses one page of a user's listening
// history. Tracks are returned in page order; a page past the end yields an
// empty slice.
//
// Example:
//
//	tracks, err := client.User().RecentTracksPage(ctx, lastfm.RecentTracksRequest{
//	    User:  "rj",
//	    Limit: 500,
//	    Page:  2,
//	})
func (s *UserService) RecentTracksPage(ctx context.Context, req RecentTracksRequest) ([]RecentTrack, error) {
	if req.User == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	root, err := s.client.call(ctx, methodRecentTracks, map[string]string{
		"user":  req.User,
		"limit": strconv.Itoa(normalizeLimit(req.Limit)),
		"page":  strconv.Itoa(page),
	})
	if err != nil {
		return nil, err
	}

	tracks, err := ParsePage(root, req.SkipNowPlaying)
	if err != nil {
		return nil, fmt.Errorf("lastfm: page %d: %w", page, err)
	}
	return tracks, nil
}

// ParsePage extracts every <track> element of a recent tracks document.
//
// Each track must carry <mbid>, <artist mbid="...">, <name> and
// <date uts="...">; a missing one is reported as *xmlfetch.SchemaError.
func ParsePage(root *xmlfetch.Node, skipNowPlaying bool) ([]RecentTrack, error) {
	elems := root.Iter("track")
	tracks := make([]RecentTrack, 0, len(elems))

	for i, el := range elems {
		if skipNowPlaying {
			if np, _ := el.Attr("nowplaying"); np == "true" {
				continue
			}
		}

		track, err := parseTrack(el)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

func parseTrack(el *xmlfetch.Node) (RecentTrack, error) {
	mbid, err := el.RequireChild("mbid")
	if err != nil {
		return RecentTrack{}, err
	}
	artist, err := el.RequireChild("artist")
	if err != nil {
		return RecentTrack{}, err
	}
	artistMBID, err := artist.RequireAttr("mbid")
	if err != nil {
		return RecentTrack{}, err
	}
	name, err := el.RequireChild("name")
	if err != nil {
		return RecentTrack{}, err
	}
	date, err := el.RequireChild("date")
	if err != nil {
		return RecentTrack{}, err
	}
	uts, err := date.RequireAttr("uts")
	if err != nil {
		return RecentTrack{}, err
	}

	secs, err := strconv.ParseInt(uts, 10, 64)
	if err != nil {
		return RecentTrack{}, fmt.Errorf("uts %q is not an integer: %w", uts,
			&xmlfetch.SchemaError{Element: "date", Field: "@uts"})
	}

	return RecentTrack{
		TrackMBID:  mbid.Content(),
		Artist:     artist.Content(),
		ArtistMBID: artistMBID,
		Name:       name.Content(),
		Timestamp:  time.Unix(secs, 0).UTC(),
	}, nil
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return limit
	}
}
