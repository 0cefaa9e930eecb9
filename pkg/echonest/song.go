package echonest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// FeatureKeys are the audio summary fields most analyses use. The service
// returns more (key, mode, duration, ...), which are kept as well.
var FeatureKeys = []string{
	"energy", "valence", "tempo", "liveness",
	"danceability", "loudness", "acousticness",
}

// Echoed parameter names merged into every Summary.
const (
	ParamArtist   = "artist"
	ParamTitle    = "title"
	ParamRankType = "rank_type"
	ParamResults  = "results"
	ParamSongType = "song_type"
)

// Summary is an audio summary merged with the query parameters that
// produced it. Feature values are float64 as decoded from JSON; the echoed
// results parameter is an int.
type Summary map[string]any

// SongQuery identifies one song to look up.
type SongQuery struct {
	Title      string
	Artist     string
	StudioOnly bool              // Restrict to studio recordings (song_type=studio)
	Extra      map[string]string // Additional song/search parameters
}

type searchResponse struct {
	Response struct {
		Status struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"status"`
		Songs []struct {
			ID           string         `json:"id"`
			Title        string         `json:"title"`
			ArtistName   string         `json:"artist_name"`
			AudioSummary map[string]any `json:"audio_summary"`
		} `json:"songs"`
	} `json:"response"`
}

// SongSummary looks up the single most relevant recording for q and
// returns its audio summary merged with the echoed query parameters.
//
// The echoed parameters are merged even when the service returns an empty
// audio summary. Any failure of the remote call yields a nil Summary and
// an error. The configured pause is taken on every call, success or not;
// it is skipped only when ctx is cancelled.
func (c *Client) SongSummary(ctx context.Context, q SongQuery) (Summary, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("echonest: rate limiter: %w", err)
		}
	}

	if c.pause.Placement == PauseBefore {
		if err := c.sleep(ctx, c.pause.Duration); err != nil {
			return nil, err
		}
	}

	summary, err := c.search(ctx, q)

	if c.pause.Placement == PauseAfter {
		if serr := c.sleep(ctx, c.pause.Duration); serr != nil && err == nil {
			err = serr
			summary = nil
		}
	}

	return summary, err
}

// echoed returns the parameters that identify the query in the output.
func echoed(q SongQuery) Summary {
	params := Summary{
		ParamArtist:   q.Artist,
		ParamTitle:    q.Title,
		ParamRankType: "relevance",
		ParamResults:  1,
	}
	if q.StudioOnly {
		params[ParamSongType] = "studio"
	}
	return params
}

func (c *Client) search(ctx context.Context, q SongQuery) (Summary, error) {
	params := make(map[string]string, len(q.Extra)+8)
	for k, v := range q.Extra {
		params[k] = v
	}
	echo := echoed(q)
	for k, v := range echo {
		params[k] = fmt.Sprint(v)
	}
	params["api_key"] = c.apiKey
	params["format"] = "json"
	params["bucket"] = "audio_summary"

	c.logDebugf("echonest: song/search artist=%q title=%q", q.Artist, q.Title)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Accept", "application/json").
		Get(c.baseURL + "song/search")
	if err != nil {
		return nil, fmt.Errorf("echonest: song/search: %w", err)
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("echonest: song/search: unexpected status %d", resp.StatusCode())
		}
		return nil, fmt.Errorf("echonest: decode song/search response: %w", err)
	}

	if code := body.Response.Status.Code; code != StatusSuccess {
		return nil, &StatusError{
			Code:       code,
			Message:    body.Response.Status.Message,
			HTTPStatus: resp.StatusCode(),
		}
	}
	if resp.IsError() {
		return nil, fmt.Errorf("echonest: song/search: unexpected status %d", resp.StatusCode())
	}
	if len(body.Response.Songs) == 0 {
		return nil, ErrNoMatch
	}

	summary := make(Summary, len(body.Response.Songs[0].AudioSummary)+len(echo))
	for k, v := range body.Response.Songs[0].AudioSummary {
		summary[k] = v
	}
	for k, v := range echo {
		summary[k] = v
	}
	return summary, nil
}

// FormatValue renders a summary value as a table cell.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
