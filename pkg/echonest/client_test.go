package echonest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jfmyers9/scrobblemood/pkg/xmlfetch"
)

const moodTermsXML = `<?xml version="1.0" encoding="UTF-8"?>
<response>
	<status><version>4.2</version><code>0</code><message>Success</message></status>
	<type>mood</type>
	<terms><name>happy</name></terms>
	<terms><name>sad</name></terms>
	<terms><name>energetic</name></terms>
</response>`

const songSearchJSON = `{"response": {
	"status": {"version": "4.2", "code": 0, "message": "Success"},
	"songs": [{
		"id": "SOCZMFK12AC468668F",
		"title": "Yesterday",
		"artist_name": "The Beatles",
		"audio_summary": {
			"energy": 0.183,
			"valence": 0.315,
			"tempo": 96.529,
			"liveness": 0.088,
			"danceability": 0.332,
			"loudness": -11.83,
			"acousticness": 0.879,
			"analysis_url": null
		}
	}]
}}`

// sleepRecorder replaces Client.sleep and records requested pauses.
type sleepRecorder struct {
	calls []time.Duration
	order *[]string
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	if s.order != nil {
		*s.order = append(*s.order, "sleep")
	}
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *sleepRecorder) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if cfg.APIKey == "" {
		cfg.APIKey = "test-api-key"
	}
	cfg.BaseURL = server.URL

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	rec := &sleepRecorder{}
	client.sleep = rec.sleep
	return client, rec
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("failed to write response body: %v", err)
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewClient(Config{APIKey: "k", Pause: PausePolicy{Duration: -time.Second}}); err == nil {
		t.Error("expected error for negative pause")
	}

	c, err := NewClient(Config{APIKey: "k", BaseURL: "http://example.com/api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.baseURL != "http://example.com/api/" {
		t.Errorf("expected trailing slash on base URL, got %q", c.baseURL)
	}
	if c.limiter != nil {
		t.Error("expected no limiter when CallsPerMinute is 0")
	}
}

func TestClient_ListTerms(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artist/list_terms" {
			t.Errorf("expected path /artist/list_terms, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "mood" || q.Get("format") != "xml" || q.Get("api_key") != "test-api-key" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		writeBody(t, w, http.StatusOK, moodTermsXML)
	}, Config{})

	terms, err := client.ListTerms(context.Background(), TermMood)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"happy", "sad", "energetic"}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %d", len(want), len(terms))
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d: expected %q, got %q", i, want[i], terms[i])
		}
	}
}

func TestClient_ListTerms_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "status error",
			statusCode: http.StatusOK,
			body:       `<response><status><code>1</code><message>Invalid key</message></status></response>`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.Code != StatusInvalidAPIKey {
					t.Errorf("expected StatusError code 1, got %v", err)
				}
			},
		},
		{
			name:       "malformed xml",
			statusCode: http.StatusOK,
			body:       `<response><terms>`,
			check: func(t *testing.T, err error) {
				var pe *xmlfetch.ParseError
				if !errors.As(err, &pe) {
					t.Errorf("expected *xmlfetch.ParseError, got %T", err)
				}
			},
		},
		{
			name:       "term without name",
			statusCode: http.StatusOK,
			body:       `<response><terms><frequency>1</frequency></terms></response>`,
			check: func(t *testing.T, err error) {
				var se *xmlfetch.SchemaError
				if !errors.As(err, &se) {
					t.Errorf("expected *xmlfetch.SchemaError, got %T", err)
				}
			},
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			body:       `bad gateway`,
			check: func(t *testing.T, err error) {
				var ne *xmlfetch.NetworkError
				if !errors.As(err, &ne) {
					t.Errorf("expected *xmlfetch.NetworkError, got %T", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(t, w, tt.statusCode, tt.body)
			}, Config{})

			_, err := client.ListTerms(context.Background(), TermMood)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			tt.check(t, err)
		})
	}
}

func TestClient_SongSummary(t *testing.T) {
	tests := []struct {
		name         string
		query        SongQuery
		wantSongType bool
	}{
		{
			name:         "studio only",
			query:        SongQuery{Artist: "The Beatles", Title: "Yesterday", StudioOnly: true},
			wantSongType: true,
		},
		{
			name:  "any recording",
			query: SongQuery{Artist: "The Beatles", Title: "Yesterday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/song/search" {
					t.Errorf("expected path /song/search, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("artist") != "The Beatles" || q.Get("title") != "Yesterday" {
					t.Errorf("unexpected artist/title: %s", r.URL.RawQuery)
				}
				if q.Get("results") != "1" || q.Get("rank_type") != "relevance" {
					t.Errorf("expected results=1 and rank_type=relevance, got %s", r.URL.RawQuery)
				}
				if q.Get("bucket") != "audio_summary" || q.Get("format") != "json" {
					t.Errorf("expected audio_summary bucket in json, got %s", r.URL.RawQuery)
				}
				if got := q.Has("song_type"); got != tt.wantSongType {
					t.Errorf("song_type present = %v, expected %v", got, tt.wantSongType)
				}
				writeBody(t, w, http.StatusOK, songSearchJSON)
			}, Config{Pause: PausePolicy{Duration: 30 * time.Second}})

			summary, err := client.SongSummary(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, key := range FeatureKeys {
				if _, ok := summary[key]; !ok {
					t.Errorf("expected feature %q in summary", key)
				}
			}
			if summary["energy"] != 0.183 {
				t.Errorf("expected energy 0.183, got %v", summary["energy"])
			}
			if summary[ParamArtist] != "The Beatles" || summary[ParamTitle] != "Yesterday" {
				t.Errorf("expected echoed artist/title, got %v / %v", summary[ParamArtist], summary[ParamTitle])
			}
			if summary[ParamRankType] != "relevance" || summary[ParamResults] != 1 {
				t.Errorf("expected echoed rank_type/results, got %v / %v", summary[ParamRankType], summary[ParamResults])
			}
			if _, ok := summary[ParamSongType]; ok != tt.wantSongType {
				t.Errorf("song_type echoed = %v, expected %v", ok, tt.wantSongType)
			}

			if len(rec.calls) != 1 || rec.calls[0] != 30*time.Second {
				t.Errorf("expected one 30s pause, got %v", rec.calls)
			}
		})
	}
}

func TestClient_SongSummary_ExtraParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("min_tempo") != "100" {
			t.Errorf("expected extra param min_tempo=100, got %s", r.URL.RawQuery)
		}
		if q.Get("results") != "1" {
			t.Errorf("expected fixed results=1 to override extras, got %s", q.Get("results"))
		}
		writeBody(t, w, http.StatusOK, songSearchJSON)
	}, Config{})

	summary, err := client.SongSummary(context.Background(), SongQuery{
		Artist: "The Beatles",
		Title:  "Yesterday",
		Extra:  map[string]string{"min_tempo": "100", "results": "15"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := summary["min_tempo"]; ok {
		t.Error("extra params should not be echoed into the summary")
	}
}

func TestClient_SongSummary_EmptySummaryStillEchoes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{"response": {"status": {"code": 0, "message": "Success"},
			"songs": [{"id": "X", "audio_summary": {}}]}}`)
	}, Config{})

	summary, err := client.SongSummary(context.Background(), SongQuery{Artist: "A", Title: "T"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary) != 4 {
		t.Errorf("expected only the 4 echoed params, got %v", summary)
	}
}

func TestClient_SongSummary_Failures(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantStatus int
	}{
		{
			name:       "no match",
			statusCode: http.StatusOK,
			body:       `{"response": {"status": {"code": 0, "message": "Success"}, "songs": []}}`,
			wantErr:    ErrNoMatch,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			body:       `{"response": {"status": {"code": 3, "message": "3|You are limited to 20 accesses every minute."}}}`,
			wantStatus: StatusRateLimited,
		},
		{
			name:       "malformed body",
			statusCode: http.StatusOK,
			body:       `{"response": `,
		},
		{
			name:       "html error page",
			statusCode: http.StatusInternalServerError,
			body:       `<html>oops</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(t, w, tt.statusCode, tt.body)
			}, Config{Pause: PausePolicy{Duration: time.Second}})

			summary, err := client.SongSummary(context.Background(), SongQuery{Artist: "A", Title: "T"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if summary != nil {
				t.Errorf("expected nil summary on failure, got %v", summary)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantStatus != 0 {
				var se *StatusError
				if !errors.As(err, &se) || se.Code != tt.wantStatus {
					t.Errorf("expected StatusError %d, got %v", tt.wantStatus, err)
				}
			}

			if len(rec.calls) != 1 {
				t.Errorf("expected pause after a failed lookup, got %d pauses", len(rec.calls))
			}
		})
	}
}

func TestClient_SongSummary_PausePlacement(t *testing.T) {
	for _, placement := range []Placement{PauseBefore, PauseAfter} {
		t.Run(placement.String(), func(t *testing.T) {
			var order []string
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "call")
				writeBody(t, w, http.StatusOK, songSearchJSON)
			}, Config{Pause: PausePolicy{Duration: time.Second, Placement: placement}})
			rec.order = &order

			if _, err := client.SongSummary(context.Background(), SongQuery{Artist: "A", Title: "T"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := "call,sleep"
			if placement == PauseBefore {
				want = "sleep,call"
			}
			if got := strings.Join(order, ","); got != want {
				t.Errorf("expected order %s, got %s", want, got)
			}
		})
	}
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleep did not return promptly on cancellation")
	}
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in      string
		want    Placement
		wantErr bool
	}{
		{"", PauseAfter, false},
		{"after", PauseAfter, false},
		{"Before", PauseBefore, false},
		{"during", PauseAfter, true},
	}
	for _, tt := range tests {
		got, err := ParsePlacement(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlacement(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePlacement(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"studio", "studio"},
		{0.183, "0.183"},
		{-11.83, "-11.83"},
		{float64(120), "120"},
		{1, "1"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
