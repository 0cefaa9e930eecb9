// Package lastfm provides a read-only client for the Last.fm API 2.0.
//
// It covers the calls needed to export a user's listening history:
// discovering how many pages of recent tracks exist, and fetching and
// parsing individual pages. Requests are unsigned GETs carrying only the
// API key; responses are XML.
//
// Each call performs a single HTTP request. Nothing is retried, so callers
// that page through large histories should expect and handle failures.
//
// # Getting Started
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pages, err := client.User().TotalPages(ctx, "rj", lastfm.DefaultPageLimit)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for p := 1; p <= pages; p++ {
//	    tracks, err := client.User().RecentTracksPage(ctx, lastfm.RecentTracksRequest{
//	        User:  "rj",
//	        Limit: lastfm.DefaultPageLimit,
//	        Page:  p,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, t := range tracks {
//	        fmt.Println(t.Timestamp, t.Artist, "-", t.Name)
//	    }
//	}
//
// # Error Handling
//
// Failures use the error types from package xmlfetch:
//
//   - *xmlfetch.NetworkError: connection failures and HTTP errors
//   - *xmlfetch.ParseError: the response was not well-formed XML
//   - *xmlfetch.SchemaError: an expected element or attribute is missing
//
// When Last.fm answers with <lfm status="failed">, the error is an *Error
// carrying the Last.fm error code:
//
//	if errors.Is(err, lastfm.ErrUserNotFound) {
//	    // unknown user
//	}
//
// # Now Playing
//
// While a user is listening, the first page starts with a track marked
// nowplaying="true" that has no <date>. Such a page fails to parse unless
// RecentTracksRequest.SkipNowPlaying is set.
//
// # Thread Safety
//
// Client is safe for concurrent use by multiple goroutines.
package lastfm
