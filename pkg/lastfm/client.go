package lastfm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

// Config holds client configuration.
type Config struct {
	APIKey     string            // Required: Last.fm API key
	HTTPClient *http.Client      // Optional: HTTP client used when Fetcher is nil
	Fetcher    *xmlfetch.Fetcher // Optional: shared XML fetcher
	BaseURL    string            // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	Timeout    time.Duration     // Optional: per-request timeout when Fetcher is nil
	Logger     Logger            // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
//
// A Client only reads its configuration after construction and is safe for
// concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	fetcher *xmlfetch.Fetcher
	logger  Logger

	user *UserService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if the API key is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
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
		logger:  cfg.Logger,
	}

	c.user = &UserService{client: c}

	return c, nil
}

// User returns the user service.
func (c *Client) User() *UserService {
	return c.user
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
