package pipeline

import (
	"bytes"
	"strings"
	"testing"
)

func TestFilterImages(t *testing.T) {
	input := `{"data":[
		{"wikibase_article":{"id":"Q1"},"image":{"image":"https://example.org/a.jpg"}},
		{"wikibase_article":{"id":"Q2"},"image":[]},
		{"wikibase_article":{"id":"Q3"},"image":null},
		{"wikibase_article":{"id":"Q4"},"image":[{"image":""},{"image":"https://example.org/b.jpg"}]},
		{"wikibase_article":{"id":"Q5"},"image":{"image":""}},
		{"wikibase_article":{"id":"Q6"}},
		{"wikibase_article":{"id":"Q7"},"image":"1503"}
	]}`

	var out bytes.Buffer
	stats, err := FilterImages(strings.NewReader(input), &out, false)
	if err != nil {
		t.Fatalf("FilterImages failed: %v", err)
	}
	if stats.Total != 7 || stats.Kept != 2 {
		t.Errorf("expected 2 of 7 kept, got %+v", stats)
	}

	want := `{"data":[{"wikibase_article":{"id":"Q1"},"image":{"image":"https://example.org/a.jpg"}},` +
		`{"wikibase_article":{"id":"Q4"},"image":[{"image":""},{"image":"https://example.org/b.jpg"}]}]}` + "\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n got %s\nwant %s", out.String(), want)
	}
}

func TestFilterImages_KeepsFieldOrder(t *testing.T) {
	input := `{"data":[{"wikibase_article":{"id":"Q1"},"zeta":1,"image":{"image":"x"},"alpha":2}]}`

	var out bytes.Buffer
	if _, err := FilterImages(strings.NewReader(input), &out, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"zeta":1,"image":{"image":"x"},"alpha":2`) {
		t.Errorf("record bytes were not preserved: %s", out.String())
	}
}

func TestFilterImages_Pretty(t *testing.T) {
	input := `{"data":[{"image":{"image":"x"}}]}`

	var out bytes.Buffer
	if _, err := FilterImages(strings.NewReader(input), &out, true); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "{\n  \"data\": [") {
		t.Errorf("expected indented output, got %s", out.String())
	}
}

func TestFilterImages_InvalidInput(t *testing.T) {
	var out bytes.Buffer
	if _, err := FilterImages(strings.NewReader(`{"data":`), &out, false); err == nil {
		t.Error("expected error for truncated document")
	}
	if _, err := FilterImages(strings.NewReader(`{"data":[42]}`), &out, false); err == nil {
		t.Error("expected error for non-object record")
	}
}
