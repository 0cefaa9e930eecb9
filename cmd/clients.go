package cmd

import (
	"time"

	"github.com/jfmyers9/scrobblemood/pkg/echonest"
	"github.com/jfmyers9/scrobblemood/pkg/lastfm"
	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

func newFetcher() *xmlfetch.Fetcher {
	return xmlfetch.New(xmlfetch.Config{
		Timeout: cfg.HTTPTimeout,
		Logger:  debugLogger{logger.With().Str("component", "http").Logger()},
	})
}

func newLastFMClient() (*lastfm.Client, error) {
	return lastfm.NewClient(lastfm.Config{
		APIKey:  cfg.LastFM.APIKey,
		BaseURL: cfg.LastFM.BaseURL,
		Fetcher: newFetcher(),
		Logger:  debugLogger{logger.With().Str("component", "lastfm").Logger()},
	})
}

// echoNestOverrides carries command-line values that replace the
// configured pause and rate settings.
type echoNestOverrides struct {
	pause          *time.Duration // nil keeps the configured pause
	placement      string
	callsPerMinute int
}

func newEchoNestClient(o echoNestOverrides) (*echonest.Client, error) {
	pause := cfg.EchoNest.Pause
	if o.pause != nil {
		pause = *o.pause
	}

	placementName := cfg.EchoNest.PausePlacement
	if o.placement != "" {
		placementName = o.placement
	}
	placement, err := echonest.ParsePlacement(placementName)
	if err != nil {
		return nil, err
	}

	callsPerMinute := cfg.EchoNest.CallsPerMinute
	if o.callsPerMinute > 0 {
		callsPerMinute = o.callsPerMinute
	}

	return echonest.NewClient(echonest.Config{
		APIKey:         cfg.EchoNest.APIKey,
		BaseURL:        cfg.EchoNest.BaseURL,
		Fetcher:        newFetcher(),
		Pause:          echonest.PausePolicy{Duration: pause, Placement: placement},
		CallsPerMinute: callsPerMinute,
		Logger:         debugLogger{logger.With().Str("component", "echonest").Logger()},
	})
}
