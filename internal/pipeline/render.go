package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/artgraph/internal/model"
)

// WriteDocument writes records as {"data": [...]}
func WriteDocument(w io.Writer, records []*model.Record, pretty bool) error {
	if records == nil {
		records = []*model.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(model.Document{Data: records}); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// WriteDocumentFile writes the dataset to path
func WriteDocumentFile(path string, records []*model.Record, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := WriteDocument(w, records, pretty); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}

// ReadDocument reads a dataset written by WriteDocument
func ReadDocument(r io.Reader) (*model.Document, error) {
	var doc model.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// WriteRecord writes a single record, indented
func WriteRecord(w io.Writer, record *model.Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteLines writes one entry per line
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
