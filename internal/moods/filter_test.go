package moods

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jfmyers9/scrobblemood/pkg/echonest"
	"github.com/rs/zerolog"
)

type fakeLister struct {
	terms []string
	err   error
	calls int
}

func (f *fakeLister) ListTerms(ctx context.Context, termType string) ([]string, error) {
	f.calls++
	if termType != echonest.TermMood {
		return nil, errors.New("unexpected term type " + termType)
	}
	return f.terms, f.err
}

func writeWordList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}
	return path
}

const wordList = `Word,V.Mean.Sum,A.Mean.Sum
happy,8.47,6.05
mellow,5.9,2.8
energetic,7.57,6.1
joyful,8.21,5.53
`

func TestFilter_Apply(t *testing.T) {
	lister := &fakeLister{terms: []string{"happy", "sad", "energetic"}}
	f := NewFilter(lister, zerolog.Nop())

	out, err := f.Apply(context.Background(), writeWordList(t, wordList), "Word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(out.Values("Word"), ","); got != "happy,energetic" {
		t.Errorf("expected happy,energetic, got %s", got)
	}
	if out.Rows[0]["V.Mean.Sum"] != "8.47" || out.Rows[1]["A.Mean.Sum"] != "6.1" {
		t.Errorf("expected original row data, got %v", out.Rows)
	}
	if strings.Join(out.Columns, ",") != "Word,V.Mean.Sum,A.Mean.Sum" {
		t.Errorf("expected original columns, got %v", out.Columns)
	}
}

func TestFilter_ApplySpreadsheetExport(t *testing.T) {
	lister := &fakeLister{terms: []string{"happy", "sad"}}
	f := NewFilter(lister, zerolog.Nop())

	out, err := f.Apply(context.Background(), writeWordList(t, "\ufeffword,v\nhappy,1\nmellow,2\n"), "word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(out.Values("word"), ","); got != "happy" {
		t.Errorf("expected happy, got %s", got)
	}
}

func TestFilter_ApplyIsDeterministic(t *testing.T) {
	lister := &fakeLister{terms: []string{"energetic", "happy", "sad"}}
	f := NewFilter(lister, zerolog.Nop())
	path := writeWordList(t, wordList)

	var outputs [2]bytes.Buffer
	for i := range outputs {
		out, err := f.Apply(context.Background(), path, "Word")
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if err := out.WriteCSV(&outputs[i]); err != nil {
			t.Fatalf("run %d: failed to write CSV: %v", i, err)
		}
	}

	if !bytes.Equal(outputs[0].Bytes(), outputs[1].Bytes()) {
		t.Errorf("outputs differ:\n%s\n---\n%s", outputs[0].String(), outputs[1].String())
	}
	if lister.calls != 2 {
		t.Errorf("expected vocabulary fetched per run, got %d calls", lister.calls)
	}
}

func TestFilter_ApplyErrors(t *testing.T) {
	boom := errors.New("offline")

	tests := []struct {
		name    string
		lister  *fakeLister
		content string
		column  string
	}{
		{"unknown column", &fakeLister{}, wordList, "word"},
		{"vocabulary failure", &fakeLister{err: boom}, wordList, "Word"},
		{"empty word list", &fakeLister{}, "", "Word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.lister, zerolog.Nop())
			if _, err := f.Apply(context.Background(), writeWordList(t, tt.content), tt.column); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFilter_EchoNest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `<response><status><code>0</code><message>Success</message></status>
			<terms><name>happy</name></terms><terms><name>sad</name></terms><terms><name>energetic</name></terms>
		</response>`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("failed to write response body: %v", err)
		}
	}))
	defer server.Close()

	client, err := echonest.NewClient(echonest.Config{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	out, err := NewFilter(client, zerolog.Nop()).Apply(context.Background(), writeWordList(t, wordList), "Word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", out.Len())
	}
}
