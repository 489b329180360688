package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/artgraph/internal/model"
)

// Assembler builds the record for one painting
type Assembler interface {
	Assemble(ctx context.Context, id model.Identifier) (*model.Record, error)
}

// AssembleJob assembles a single painting record
type AssembleJob struct {
	Index     int
	ID        model.Identifier
	Assembler Assembler
}

// Execute runs the assembly. A panicking assembler is reported as a failed result.
func (j *AssembleJob) Execute(ctx context.Context) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = &AssembleResult{Index: j.Index, ID: j.ID, Error: fmt.Errorf("assemble %s: panic: %v", j.ID, p)}
		}
	}()

	record, err := j.Assembler.Assemble(ctx, j.ID)
	return &AssembleResult{
		Index:  j.Index,
		ID:     j.ID,
		Record: record,
		Error:  err,
	}
}

// AssembleResult is the outcome of one assembly job
type AssembleResult struct {
	Index  int
	ID     model.Identifier
	Record *model.Record
	Error  error
}

// GetError returns the error from the assembly result
func (r *AssembleResult) GetError() error {
	return r.Error
}

// ProgressFunc is called once per finished job
type ProgressFunc func(done, total int, result *AssembleResult)

// BatchProcessor assembles many records concurrently
type BatchProcessor struct {
	assembler   Assembler
	concurrency int
	progress    ProgressFunc
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(assembler Assembler, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		assembler:   assembler,
		concurrency: concurrency,
	}
}

// OnProgress registers a progress callback
func (b *BatchProcessor) OnProgress(fn ProgressFunc) *BatchProcessor {
	b.progress = fn
	return b
}

// ProcessIdentifiers assembles every identifier. Results keep input order;
// entries whose job never ran (cancelled context) carry the context error.
func (b *BatchProcessor) ProcessIdentifiers(ctx context.Context, ids []model.Identifier) []*AssembleResult {
	results := make([]*AssembleResult, len(ids))
	if len(ids) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, id := range ids {
			pool.Submit(&AssembleJob{Index: i, ID: id, Assembler: b.assembler})
		}
	}()

	done := 0
	pool.Drain(func(r Result) {
		res, ok := r.(*AssembleResult)
		if !ok {
			return
		}
		results[res.Index] = res
		done++
		if b.progress != nil {
			b.progress(done, len(ids), res)
		}
	})

	for i, res := range results {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &AssembleResult{
				Index: i,
				ID:    ids[i],
				Error: model.NewLookupError("assemble", ids[i].String(), model.ReasonCancelled, err),
			}
		}
	}

	return results
}

// ProcessFile assembles every identifier listed in a file
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AssembleResult, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	ids := make([]model.Identifier, 0, len(lines))
	for _, line := range lines {
		id, err := model.ParseIdentifier(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ids = append(ids, id)
	}

	return b.ProcessIdentifiers(ctx, ids), nil
}

// ReadLines reads non-empty, non-comment lines from a file, deduplicated in first-seen order
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			lines = append(lines, line)
			seen[line] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return lines, nil
}
