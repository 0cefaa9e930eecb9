package xmlfetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds fetcher configuration.
type Config struct {
	HTTPClient *http.Client  // Optional: underlying HTTP client
	Timeout    time.Duration // Optional: per-request timeout (0 = none)
	UserAgent  string        // Optional: defaults to DefaultUserAgent
	Logger     Logger        // Optional: debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "scrobblemood/1.0"

// Fetcher performs GET requests and parses XML bodies. It is safe for
// concurrent use.
type Fetcher struct {
	client *resty.Client
	logger Logger
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client.SetHeader("User-Agent", ua)
	client.SetLogger(restyLogger{cfg.Logger})

	return &Fetcher{client: client, logger: cfg.Logger}
}

// Resty exposes the underlying client so sibling API clients can share its
// connection pool and headers.
func (f *Fetcher) Resty() *resty.Client {
	return f.client
}

// Fetch GETs rawURL and parses the body as XML, returning the document root.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Node, error) {
	safeURL := redactURL(rawURL)
	f.logDebugf("xmlfetch: GET %s", safeURL)

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/xml, text/xml").
		Get(rawURL)
	if err != nil {
		return nil, &NetworkError{URL: safeURL, Err: err}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &NetworkError{URL: safeURL, StatusCode: code, Body: body}
	}

	root, err := Parse(body)
	if err != nil {
		return nil, &ParseError{URL: safeURL, Err: err}
	}

	f.logDebugf("xmlfetch: GET %s -> <%s>", safeURL, root.Name())
	return root, nil
}

func (f *Fetcher) logDebugf(format string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debugf(format, args...)
	}
}

// BuildURL appends params to base as an encoded query string. Keys are
// sorted, so equal inputs always produce equal URLs.
func BuildURL(base string, params map[string]string) string {
	if len(params) == 0 {
		return base
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	sep := "?"
	switch {
	case strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&"):
		sep = ""
	case strings.Contains(base, "?"):
		sep = "&"
	}
	return base + sep + values.Encode()
}

// restyLogger routes resty's own messages to the optional debug logger
// instead of stderr.
type restyLogger struct {
	logger Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.Debugf("resty error: "+format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.Debugf("resty warn: "+format, v...) }

func (l restyLogger) Debugf(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Debugf(format, v...)
	}
}
