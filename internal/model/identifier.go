package model

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultWikiBaseURL is the entity page prefix of the knowledge graph
const DefaultWikiBaseURL = "https://www.wikidata.org/wiki/"

// Identifier names an entity in the knowledge graph (e.g., "Q12418")
type Identifier string

// ParseIdentifier accepts a bare identifier or an entity URL and returns the identifier
func ParseIdentifier(raw string) (Identifier, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty identifier")
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		parsed, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("parse entity URL: %w", err)
		}
		path := strings.TrimRight(parsed.Path, "/")
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			path = path[idx+1:]
		}
		if path == "" {
			return "", fmt.Errorf("no identifier in URL %q", raw)
		}
		return Identifier(path), nil
	}

	return Identifier(s), nil
}

// WikiURL returns the entity page URL under the given base
func (id Identifier) WikiURL(base string) string {
	if base == "" {
		base = DefaultWikiBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + string(id)
}

func (id Identifier) String() string {
	return string(id)
}
