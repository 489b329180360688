package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FilterStats summarizes a filter run
type FilterStats struct {
	Kept  int
	Total int
}

// FilterImages copies the dataset from r to w keeping only records that
// carry at least one image link. Kept records are written byte for byte.
func FilterImages(r io.Reader, w io.Writer, pretty bool) (FilterStats, error) {
	var doc struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return FilterStats{}, fmt.Errorf("decode document: %w", err)
	}

	stats := FilterStats{Total: len(doc.Data)}

	var buf bytes.Buffer
	buf.WriteString(`{"data":[`)
	for _, raw := range doc.Data {
		ok, err := hasImage(raw)
		if err != nil {
			return stats, err
		}
		if !ok {
			continue
		}
		if stats.Kept > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
		stats.Kept++
	}
	buf.WriteString("]}")

	out := buf.Bytes()
	if pretty {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", "  "); err != nil {
			return stats, fmt.Errorf("indent document: %w", err)
		}
		out = indented.Bytes()
	}

	if _, err := w.Write(append(out, '\n')); err != nil {
		return stats, fmt.Errorf("write document: %w", err)
	}
	return stats, nil
}

// hasImage reports whether the record's image field is an image object, or a
// list containing at least one, with a non-empty link
func hasImage(record json.RawMessage) (bool, error) {
	var fields struct {
		Image json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(record, &fields); err != nil {
		return false, fmt.Errorf("decode record: %w", err)
	}

	image := bytes.TrimSpace(fields.Image)
	if len(image) == 0 {
		return false, nil
	}

	switch image[0] {
	case '{':
		return imageObject(image), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(image, &items); err != nil {
			return false, nil
		}
		for _, item := range items {
			if imageObject(item) {
				return true, nil
			}
		}
	}
	return false, nil
}

func imageObject(raw json.RawMessage) bool {
	var obj struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return obj.Image != ""
}
