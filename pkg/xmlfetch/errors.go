package xmlfetch

import (
	"fmt"
	"net/url"
)

// NetworkError is returned when the HTTP exchange itself fails: DNS or
// connection errors, context cancellation, or a non-2xx status code.
type NetworkError struct {
	URL        string // Requested URL with credentials redacted
	StatusCode int    // HTTP status, 0 if no response was received
	Body       []byte // Response body for non-2xx answers
	Err        error  // Underlying transport error, nil for status failures
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xmlfetch: GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("xmlfetch: GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body is not well-formed XML.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("xmlfetch: parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when a well-formed document lacks an element or
// attribute the caller requires.
type SchemaError struct {
	Element string // Element that was inspected
	Field   string // Missing child element or "@attr"
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("xmlfetch: <%s> is missing %s", e.Element, e.Field)
}

// redactedParams are query parameters never echoed into error messages.
var redactedParams = []string{"api_key", "api_sig", "sk"}

// redactURL hides credentials in rawURL so it can be logged.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}
