// Package echonest is a small client for the Echo Nest v4 API: listing the
// vocabulary of terms the service understands and fetching the audio
// summary of a song.
//
// The service enforces a tight per-minute call budget, so song lookups
// pause for a configurable time around every call (see PausePolicy) and
// can additionally be throttled with Config.CallsPerMinute.
package echonest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Echo Nest v4 API root.
	DefaultBaseURL = "http://developer.echonest.com/api/v4/"

	// DefaultPause is the recommended pause between song lookups.
	DefaultPause = 30 * time.Second
)

// Placement says whether the pause runs before or after the remote call.
type Placement int

const (
	PauseAfter Placement = iota
	PauseBefore
)

func (p Placement) String() string {
	if p == PauseBefore {
		return "before"
	}
	return "after"
}

// ParsePlacement accepts "before" or "after" (case-insensitive). The empty
// string means PauseAfter.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "after":
		return PauseAfter, nil
	case "before":
		return PauseBefore, nil
	default:
		return PauseAfter, fmt.Errorf("echonest: unknown pause placement %q", s)
	}
}

// PausePolicy is the fixed wait taken around every song lookup, whether or
// not the lookup succeeds. A zero Duration disables it.
type PausePolicy struct {
	Duration  time.Duration
	Placement Placement
}

// Config holds client configuration.
type Config struct {
	APIKey         string            // Required: Echo Nest API key
	BaseURL        string            // Optional: defaults to DefaultBaseURL
	Fetcher        *xmlfetch.Fetcher // Optional: shared fetcher (its HTTP client is reused for JSON calls)
	HTTPClient     *http.Client      // Optional: used when Fetcher is nil
	Timeout        time.Duration     // Optional: per-request timeout when Fetcher is nil
	Pause          PausePolicy       // Pause around each song lookup
	CallsPerMinute int               // Optional: client-wide song lookup budget, 0 = unlimited
	Logger         Logger            // Optional: debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Client talks to the Echo Nest API. It is safe for concurrent use; the
// optional rate limiter is shared by all goroutines using the client.
type Client struct {
	apiKey  string
	baseURL string
	fetcher *xmlfetch.Fetcher
	http    *resty.Client
	pause   PausePolicy
	limiter *rate.Limiter
	logger  Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates an Echo Nest client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("echonest: APIKey is required")
	}
	if cfg.Pause.Duration < 0 {
		return nil, fmt.Errorf("echonest: pause must not be negative")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		var fl xmlfetch.Logger
		if cfg.Logger != nil {
			fl = cfg.Logger
		}
		fetcher = xmlfetch.New(xmlfetch.Config{
			HTTPClient: cfg.HTTPClient,
			Timeout:    cfg.Timeout,
			Logger:     fl,
		})
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		fetcher: fetcher,
		http:    fetcher.Resty(),
		pause:   cfg.Pause,
		logger:  cfg.Logger,
		sleep:   sleep,
	}

	if cfg.CallsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.CallsPerMinute)), 1)
	}

	return c, nil
}

func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

// sleep waits for the specified duration or until context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
