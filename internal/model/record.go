package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ArticleKey is the JSON key of the record header
const ArticleKey = "wikibase_article"

// Article is the header block describing the artwork itself
type Article struct {
	ID           Identifier `json:"id"`
	Title        *string    `json:"title"`
	WikiURL      string     `json:"wiki_url"`
	WikipediaURL *string    `json:"wikipedia_url"`
}

// Field is one named slot of a record. Value is either a single shaped item, a
// list ([]any) of zero or several items, or nil when the lookup failed.
type Field struct {
	Name  string
	Value any
}

// Items returns the field content as a list regardless of its collapsed shape.
// A failed field (nil) yields an empty list.
func (f Field) Items() []any {
	switch v := f.Value.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// Record is the assembled output for one artwork. Fields keep the order in
// which they were assembled, and that order is preserved in JSON.
type Record struct {
	Article Article
	Fields  []Field
}

// Get returns the value of a named field
func (r *Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Field returns the named field
func (r *Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Set replaces a field value, appending the field if it does not exist yet
func (r *Record) Set(name string, value any) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// MarshalJSON renders the header followed by each field in order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if err := writeMember(&buf, ArticleKey, r.Article); err != nil {
		return nil, err
	}
	for _, f := range r.Fields {
		buf.WriteByte(',')
		if err := writeMember(&buf, f.Name, f.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal field %s: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON reads a record back, keeping field order. Field values are
// decoded into generic JSON values (maps, slices, strings, numbers).
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected object")
	}

	r.Fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}

		if key == ArticleKey {
			if err := dec.Decode(&r.Article); err != nil {
				return fmt.Errorf("record: decode %s: %w", ArticleKey, err)
			}
			continue
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: decode %s: %w", key, err)
		}
		r.Fields = append(r.Fields, Field{Name: key, Value: value})
	}

	_, err = dec.Token()
	return err
}

// Collapse reduces a single-element list to its element. Empty and
// multi-element lists are returned unchanged, so consumers must handle both shapes.
func Collapse(items []any) any {
	if len(items) == 1 {
		return items[0]
	}
	if items == nil {
		return []any{}
	}
	return items
}

// Document is the persisted dataset
type Document struct {
	Data []*Record `json:"data"`
}

// ImageRef is a canonical media link
type ImageRef struct {
	Image string `json:"image"`
}

// EntityRef is a resolved reference to another entity
type EntityRef struct {
	Name         *string `json:"name"`
	WikiURL      *string `json:"wiki_url"`
	WikipediaURL *string `json:"wikipedia_url"`
}

// PlaceRef is a place-valued field item with its validity period
type PlaceRef struct {
	Name         *string      `json:"name"`
	WikiURL      *string      `json:"wiki_url"`
	WikipediaURL *string      `json:"wikipedia_url"`
	Coordinates  *Coordinates `json:"coordinates"`
	StartTime    *string      `json:"start_time"`
	EndTime      *string      `json:"end_time"`
}

// PersonRef is a person-valued field item
type PersonRef struct {
	Name         *string    `json:"name"`
	WikiURL      *string    `json:"wiki_url"`
	WikipediaURL *string    `json:"wikipedia_url"`
	PlaceOfBirth *PlaceInfo `json:"place_of_birth"`
}

// EventRef is a significant event with its interpreted qualifiers
type EventRef struct {
	ID           *string `json:"id"`
	Name         any     `json:"name"` // label, or the literal value when the event is not an entity
	WikiURL      *string `json:"wiki_url"`
	WikipediaURL *string `json:"wikipedia_url"`

	PointInTime                    *string    `json:"point_in_time,omitempty"`
	CauseOfDestruction             any        `json:"cause_of_destruction,omitempty"`
	CauseOfDestructionWikipediaURL *string    `json:"cause_of_destruction_wikipedia_url,omitempty"`
	BeforehandOwnedBy              *EntityRef `json:"beforehand_owned_by,omitempty"`
	AfterwardOwnedBy               *EntityRef `json:"afterward_owned_by,omitempty"`
}
