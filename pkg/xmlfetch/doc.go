// Package xmlfetch retrieves XML documents over HTTP and exposes them as a
// small generic element tree.
//
// It is shared by the Last.fm and Echo Nest clients. Fetch performs exactly
// one GET per call and never retries; callers decide what a failure means.
//
// Failures are reported with three error types:
//
//   - *NetworkError: the request could not be made, or the server answered
//     with a non-2xx status
//   - *ParseError: the body is not well-formed XML
//   - *SchemaError: the document is well-formed but an element or attribute
//     the caller relies on is missing
//
// Example:
//
//	f := xmlfetch.New(xmlfetch.Config{})
//	root, err := f.Fetch(ctx, "https://example.com/feed.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, item := range root.Iter("item") {
//	    fmt.Println(item.ChildText("title"))
//	}
package xmlfetch
