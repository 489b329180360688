package model

// EntityInfo is the resolved label and encyclopedia link of an entity
type EntityInfo struct {
	Name         *string `json:"name"`
	WikipediaURL *string `json:"wikipedia_url"`
}

// Found reports whether any part of the entity was resolved
func (e EntityInfo) Found() bool {
	return e.Name != nil || e.WikipediaURL != nil
}

// Coordinates is a (latitude, longitude) pair, rendered as a two-element array
type Coordinates [2]float64

// Lat returns the latitude
func (c Coordinates) Lat() float64 { return c[0] }

// Lon returns the longitude
func (c Coordinates) Lon() float64 { return c[1] }

// PlaceInfo is an entity with an optional coordinate location
type PlaceInfo struct {
	EntityInfo
	Coordinates *Coordinates `json:"coordinates"`
}

// PersonInfo is an entity with an optional place of birth
type PersonInfo struct {
	EntityInfo
	PlaceOfBirth *PlaceInfo `json:"place_of_birth"`
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
