package lastfm

import (
	"context"
	"errors"
	"strconv"

	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

const (
	apiStatusOK     = "ok"
	apiStatusFailed = "failed"
)

// methodURL returns the GET URL for an API method. Parameter order is
// stable so identical calls produce identical URLs.
func (c *Client) methodURL(method string, params map[string]string) string {
	reqParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["api_key"] = c.apiKey

	return xmlfetch.BuildURL(c.baseURL, reqParams)
}

// call makes one GET request to the Last.fm API and returns the <lfm> root.
//
// There is no retry. Transport and parse failures come back as the
// xmlfetch error types; an lfm status="failed" document, whether served
// with 200 or an HTTP error code, comes back as *Error.
func (c *Client) call(ctx context.Context, method string, params map[string]string) (*xmlfetch.Node, error) {
	c.logDebugf("lastfm: calling %s", method)

	root, err := c.fetcher.Fetch(ctx, c.methodURL(method, params))
	if err != nil {
		var netErr *xmlfetch.NetworkError
		if errors.As(err, &netErr) && len(netErr.Body) > 0 {
			if doc, perr := xmlfetch.Parse(netErr.Body); perr == nil {
				if apiErr := apiErrorFrom(doc); apiErr != nil {
					apiErr.HTTPStatus = netErr.StatusCode
					return nil, apiErr
				}
			}
		}
		return nil, err
	}

	if apiErr := apiErrorFrom(root); apiErr != nil {
		return nil, apiErr
	}

	c.logDebugf("lastfm: %s succeeded", method)
	return root, nil
}

// apiErrorFrom converts a failed <lfm> document into an *Error, or returns
// nil when the document does not report a failure.
func apiErrorFrom(root *xmlfetch.Node) *Error {
	if root.Name() != "lfm" {
		return nil
	}
	if status, _ := root.Attr("status"); status != apiStatusFailed {
		return nil
	}

	e := &Error{}
	if el := root.Child("error"); el != nil {
		e.Message = el.Content()
		if code, ok := el.Attr("code"); ok {
			e.Code, _ = strconv.Atoi(code)
		}
	}
	return e
}
