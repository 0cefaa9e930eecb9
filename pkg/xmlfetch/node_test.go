package xmlfetch

import (
	"errors"
	"testing"
)

const termsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<response>
	<status><code>0</code><message>Success</message></status>
	<terms><name>happy</name></terms>
	<terms><name>sad</name></terms>
	<nested><terms><name>energetic</name></terms></nested>
</response>`

func TestParse_Iter(t *testing.T) {
	root, err := Parse([]byte(termsDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms := root.Iter("terms")
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(terms))
	}

	want := []string{"happy", "sad", "energetic"}
	for i, term := range terms {
		if got := term.ChildText("name"); got != want[i] {
			t.Errorf("term %d: expected %q, got %q", i, want[i], got)
		}
	}
}

func TestNode_Find(t *testing.T) {
	root, err := Parse([]byte(termsDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := root.Find("response"); got != root {
		t.Error("expected Find to match the root itself")
	}
	code := root.Find("code")
	if code == nil || code.Content() != "0" {
		t.Fatalf("expected code 0, got %+v", code)
	}
	if root.Find("missing") != nil {
		t.Error("expected nil for missing element")
	}
}

func TestNode_Require(t *testing.T) {
	root, err := Parse([]byte(`<recenttracks page="1" totalPages="7"><track/></recenttracks>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := root.RequireAttr("totalPages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "7" {
		t.Errorf("expected 7, got %q", v)
	}

	_, err = root.RequireAttr("total")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Element != "recenttracks" || schemaErr.Field != "@total" {
		t.Errorf("unexpected schema error fields: %+v", schemaErr)
	}

	if _, err := root.RequireChild("track"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := root.RequireChild("date"); !errors.As(err, &schemaErr) {
		t.Errorf("expected *SchemaError for missing child, got %v", err)
	}
}
