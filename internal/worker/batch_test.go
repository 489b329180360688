package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/artgraph/internal/model"
)

// mockAssembler implements Assembler
type mockAssembler struct {
	mu       sync.Mutex
	calls    []model.Identifier
	failOn   model.Identifier
	panicOn  model.Identifier
	duration time.Duration
}

func (m *mockAssembler) Assemble(ctx context.Context, id model.Identifier) (*model.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()

	if m.duration > 0 {
		time.Sleep(m.duration)
	}
	if id == m.panicOn {
		panic("boom")
	}
	if id == m.failOn {
		return nil, errors.New("assemble error")
	}
	title := "Painting " + id.String()
	return &model.Record{Article: model.Article{ID: id, Title: &title}}, nil
}

func TestBatchProcessor_ProcessIdentifiers(t *testing.T) {
	assembler := &mockAssembler{duration: 5 * time.Millisecond}
	processor := NewBatchProcessor(assembler, 3)

	ids := []model.Identifier{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8", "Q9", "Q10"}
	results := processor.ProcessIdentifiers(context.Background(), ids)

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.ID, res.Error)
			continue
		}
		if res.ID != ids[i] {
			t.Errorf("result %d: expected %s, got %s", i, ids[i], res.ID)
		}
		if res.Record == nil || res.Record.Article.ID != ids[i] {
			t.Errorf("result %d: record does not match identifier", i)
		}
	}
}

func TestBatchProcessor_FailureIsolated(t *testing.T) {
	assembler := &mockAssembler{failOn: "Q2", panicOn: "Q3"}
	processor := NewBatchProcessor(assembler, 2)

	results := processor.ProcessIdentifiers(context.Background(), []model.Identifier{"Q1", "Q2", "Q3", "Q4"})

	if results[0].Error != nil || results[3].Error != nil {
		t.Errorf("expected Q1 and Q4 to succeed")
	}
	if results[1].Error == nil {
		t.Error("expected error for Q2")
	}
	if results[2].Error == nil {
		t.Error("expected panic in Q3 to surface as an error")
	}
	if results[1].Record != nil {
		t.Error("expected nil record on error")
	}
}

func TestBatchProcessor_Progress(t *testing.T) {
	processor := NewBatchProcessor(&mockAssembler{}, 2)

	var seen []int
	processor.OnProgress(func(done, total int, _ *AssembleResult) {
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
		seen = append(seen, done)
	})

	processor.ProcessIdentifiers(context.Background(), []model.Identifier{"Q1", "Q2", "Q3", "Q4"})

	if len(seen) != 4 || seen[3] != 4 {
		t.Errorf("expected progress 1..4, got %v", seen)
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockAssembler{}, 1)
	results := processor.ProcessIdentifiers(ctx, []model.Identifier{"Q1", "Q2"})

	for _, res := range results {
		if res == nil {
			t.Fatal("expected a result slot for every identifier")
		}
		if res.Error != nil && model.ReasonOf(res.Error) != model.ReasonCancelled {
			t.Errorf("expected cancelled reason, got %v", res.Error)
		}
	}
}

// ctxAssembler records the context each assembly ran under
type ctxAssembler struct {
	mu   sync.Mutex
	ctxs []context.Context
}

func (c *ctxAssembler) Assemble(ctx context.Context, id model.Identifier) (*model.Record, error) {
	c.mu.Lock()
	c.ctxs = append(c.ctxs, ctx)
	c.mu.Unlock()
	return &model.Record{Article: model.Article{ID: id}}, nil
}

func TestBatchProcessor_ReleasesWorkerContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	assembler := &ctxAssembler{}
	results := NewBatchProcessor(assembler, 2).ProcessIdentifiers(parent, []model.Identifier{"Q1", "Q2", "Q3"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if parent.Err() != nil {
		t.Fatal("parent context must stay live")
	}
	if len(assembler.ctxs) != 3 {
		t.Fatalf("expected 3 assemblies, got %d", len(assembler.ctxs))
	}
	for i, ctx := range assembler.ctxs {
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("assembly %d: worker context still live after the batch returned", i)
		}
	}
}

func TestBatchProcessor_ProcessIdentifiers_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAssembler{}, 2)

	results := processor.ProcessIdentifiers(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	content := "Q1\nhttps://www.wikidata.org/wiki/Q2\n# comment\nQ1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	assembler := &mockAssembler{}
	results, err := NewBatchProcessor(assembler, 2).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].ID != "Q2" {
		t.Errorf("expected Q2 parsed from URL, got %s", results[1].ID)
	}
}

func TestReadLines(t *testing.T) {
	content := `Q12418
# comment
Q45585
   
Q12418
Q29530   `

	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	expected := []string{"Q12418", "Q45585", "Q29530"}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], line)
		}
	}
}

func TestReadLines_NonExistent(t *testing.T) {
	_, err := ReadLines("/non/existent/file")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}
