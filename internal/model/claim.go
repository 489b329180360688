package model

import (
	"encoding/json"
	"strconv"
)

// Claim represents one statement about an entity for a single property
type Claim struct {
	Property   string             `json:"property"`             // Property code (e.g., "P127")
	Value      Value              `json:"value"`                // Main snak value
	Qualifiers map[string][]Value `json:"qualifiers,omitempty"` // Raw qualifier values keyed by qualifier code
	Rank       string             `json:"rank,omitempty"`       // preferred, normal, deprecated
}

// Qualifier returns the first value recorded for a qualifier code
func (c Claim) Qualifier(code string) (Value, bool) {
	values := c.Qualifiers[code]
	if len(values) == 0 {
		return Value{}, false
	}
	return values[0], true
}

// ValueKind tags the shape of a Value
type ValueKind string

const (
	ValueNone        ValueKind = "none"        // somevalue / novalue snaks
	ValueEntity      ValueKind = "entity"      // Reference to another entity
	ValueString      ValueKind = "string"      // Plain string (file names, identifiers)
	ValueTime        ValueKind = "time"        // Extended-year timestamp
	ValueCoordinate  ValueKind = "coordinate"  // Globe coordinate
	ValueQuantity    ValueKind = "quantity"    // Signed decimal amount
	ValueMonolingual ValueKind = "monolingual" // Text with language
	ValueOther       ValueKind = "other"       // Anything else, kept raw
)

// Value is a claim or qualifier value. Exactly the fields matching Kind are set.
type Value struct {
	Kind      ValueKind       `json:"kind"`
	EntityID  Identifier      `json:"entity_id,omitempty"`
	Text      string          `json:"text,omitempty"`      // string, monolingual text, quantity amount
	Language  string          `json:"language,omitempty"`  // monolingual only
	Time      string          `json:"time,omitempty"`      // raw time, e.g. "+1503-00-00T00:00:00Z"
	Precision int             `json:"precision,omitempty"` // time precision
	Latitude  float64         `json:"latitude,omitempty"`
	Longitude float64         `json:"longitude,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"` // other only
}

// EntityValue builds an entity reference value
func EntityValue(id Identifier) Value {
	return Value{Kind: ValueEntity, EntityID: id}
}

// StringValue builds a plain string value
func StringValue(s string) Value {
	return Value{Kind: ValueString, Text: s}
}

// TimeValue builds a time value
func TimeValue(t string) Value {
	return Value{Kind: ValueTime, Time: t}
}

// CoordinateValue builds a globe coordinate value
func CoordinateValue(lat, lon float64) Value {
	return Value{Kind: ValueCoordinate, Latitude: lat, Longitude: lon}
}

// IsEntity reports whether the value references another entity
func (v Value) IsEntity() bool {
	return v.Kind == ValueEntity && v.EntityID != ""
}

// Literal returns the value in the form it takes when passed through into a record
// without interpretation. Entity references return their identifier.
func (v Value) Literal() any {
	switch v.Kind {
	case ValueEntity:
		return string(v.EntityID)
	case ValueString, ValueMonolingual:
		return v.Text
	case ValueTime:
		return v.Time
	case ValueQuantity:
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f
		}
		return v.Text
	case ValueCoordinate:
		return Coordinates{v.Latitude, v.Longitude}
	case ValueOther:
		if len(v.Raw) > 0 {
			return v.Raw
		}
	}
	return nil
}
