package catalog

import (
	"sync"

	"github.com/ppiankov/artgraph/internal/model"
)

// Visited holds the URLs already taken during one top-level crawl
type Visited struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisited creates an empty visited set
func NewVisited() *Visited {
	return &Visited{seen: make(map[string]struct{})}
}

// Take marks url as visited and reports whether it was new
func (v *Visited) Take(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Has reports whether url was visited
func (v *Visited) Has(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// Len returns the number of visited URLs
func (v *Visited) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// IDSet is an insertion-ordered set of identifiers
type IDSet struct {
	ids  []model.Identifier
	seen map[model.Identifier]struct{}
}

// NewIDSet creates an empty identifier set
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[model.Identifier]struct{})}
}

// Add inserts ids not yet present
func (s *IDSet) Add(ids ...model.Identifier) {
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// Merge adds every identifier of other
func (s *IDSet) Merge(other *IDSet) {
	if other == nil {
		return
	}
	s.Add(other.ids...)
}

// Contains reports whether id is in the set
func (s *IDSet) Contains(id model.Identifier) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of identifiers
func (s *IDSet) Len() int {
	return len(s.ids)
}

// Slice returns the identifiers in first-seen order
func (s *IDSet) Slice() []model.Identifier {
	out := make([]model.Identifier, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the identifiers as strings, in first-seen order
func (s *IDSet) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = id.String()
	}
	return out
}
