package echonest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

// TermMood is the term type for mood descriptors.
const TermMood = "mood"

// ListTerms returns the vocabulary of the given term type (for example
// TermMood) in the order the service lists it.
func (c *Client) ListTerms(ctx context.Context, termType string) ([]string, error) {
	u := xmlfetch.BuildURL(c.baseURL+"artist/list_terms", map[string]string{
		"type":    termType,
		"api_key": c.apiKey,
		"format":  "xml",
	})

	root, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("echonest: list %s terms: %w", termType, err)
	}
	if err := statusFromXML(root); err != nil {
		return nil, err
	}

	var terms []string
	for _, el := range root.Iter("terms") {
		name, err := el.RequireChild("name")
		if err != nil {
			return nil, err
		}
		terms = append(terms, name.Content())
	}

	c.logDebugf("echonest: %d %s terms", len(terms), termType)
	return terms, nil
}

// statusFromXML checks response/status/code when present.
func statusFromXML(root *xmlfetch.Node) error {
	status := root.Find("status")
	if status == nil {
		return nil
	}
	raw := status.ChildText("code")
	if raw == "" {
		return nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil || code == StatusSuccess {
		return nil
	}
	return &StatusError{Code: code, Message: status.ChildText("message")}
}
