package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ppiankov/artgraph/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(id model.Identifier, title string) *model.Record {
	r := &model.Record{Article: model.Article{
		ID:      id,
		Title:   model.StringPtr(title),
		WikiURL: id.WikiURL(""),
	}}
	r.Set("image", model.ImageRef{Image: "https://commons.wikimedia.org/wiki/Special:FilePath/Example.jpg"})
	r.Set("inception", "1503-00-00")
	return r
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRecord(ctx, testRecord("Q12418", "Mona Lisa")); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	got, err := s.Get(ctx, "Q12418")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Article.Title == nil || *got.Article.Title != "Mona Lisa" {
		t.Errorf("unexpected title: %v", got.Article.Title)
	}
	if len(got.Fields) != 2 || got.Fields[0].Name != "image" || got.Fields[1].Name != "inception" {
		t.Errorf("field order not preserved: %+v", got.Fields)
	}
}

func TestSQLiteStore_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.SaveRecord(ctx, testRecord("Q12418", "Mona Lisa"))
	_ = s.SaveRecord(ctx, testRecord("Q12418", "La Gioconda"))
	_ = s.SaveRecord(ctx, testRecord("Q45585", "The Starry Night"))

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}

	got, _ := s.Get(ctx, "Q12418")
	if *got.Article.Title != "La Gioconda" {
		t.Errorf("expected replaced title, got %s", *got.Article.Title)
	}

	ids, err := s.Identifiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "Q12418" || ids[1] != "Q45585" {
		t.Errorf("unexpected identifiers: %v", ids)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "Q1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_NullTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &model.Record{Article: model.Article{ID: "Q0", WikiURL: "https://www.wikidata.org/wiki/Q0"}}
	if err := s.SaveRecord(ctx, r); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	got, err := s.Get(ctx, "Q0")
	if err != nil {
		t.Fatal(err)
	}
	if got.Article.Title != nil {
		t.Errorf("expected null title, got %v", *got.Article.Title)
	}
}
