package wikidata

import (
	"bytes"
	"encoding/json"
)

// Entity is one item of a wbgetentities response
type Entity struct {
	ID        string       `json:"id"`
	Missing   *string      `json:"missing,omitempty"`
	Labels    LabelMap     `json:"labels"`
	Sitelinks SitelinkMap  `json:"sitelinks"`
	Claims    StatementMap `json:"claims"`
}

// Label is a language-tagged label
type Label struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Sitelink points at a page on a sister project
type Sitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

// Statement is a raw claim as returned by the API
type Statement struct {
	ID              string            `json:"id"`
	Rank            string            `json:"rank"`
	MainSnak        Snak              `json:"mainsnak"`
	Qualifiers      map[string][]Snak `json:"qualifiers,omitempty"`
	QualifiersOrder []string          `json:"qualifiers-order,omitempty"`
}

// Snak is a property/value pair. DataValue is nil for somevalue and novalue snaks.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataType  string     `json:"datatype,omitempty"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// DataValue is the typed payload of a value snak
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Binding is one variable binding of a SPARQL result row
type Binding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Label returns the first label found among the given languages
func (e *Entity) Label(languages ...string) (string, bool) {
	for _, lang := range languages {
		if l, ok := e.Labels[lang]; ok && l.Value != "" {
			return l.Value, true
		}
	}
	return "", false
}

// SitelinkTitle returns the page title on the given site (e.g. "enwiki")
func (e *Entity) SitelinkTitle(site string) (string, bool) {
	s, ok := e.Sitelinks[site]
	if !ok || s.Title == "" {
		return "", false
	}
	return s.Title, true
}

// The API encodes empty maps as [] so these types accept both shapes.

// LabelMap maps language codes to labels
type LabelMap map[string]Label

// SitelinkMap maps site ids to sitelinks
type SitelinkMap map[string]Sitelink

// StatementMap maps property codes to statements
type StatementMap map[string][]Statement

func (m *LabelMap) UnmarshalJSON(data []byte) error {
	return decodeMap(data, (*map[string]Label)(m))
}

func (m *SitelinkMap) UnmarshalJSON(data []byte) error {
	return decodeMap(data, (*map[string]Sitelink)(m))
}

func (m *StatementMap) UnmarshalJSON(data []byte) error {
	return decodeMap(data, (*map[string][]Statement)(m))
}

func decodeMap[V any](data []byte, out *map[string]V) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*out = map[string]V{}
		return nil
	}
	m := map[string]V{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*out = m
	return nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type entitiesResponse struct {
	Entities map[string]*Entity `json:"entities"`
	Error    *apiError          `json:"error,omitempty"`
}

type claimsResponse struct {
	Claims StatementMap `json:"claims"`
	Error  *apiError    `json:"error,omitempty"`
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
}
