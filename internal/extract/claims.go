package extract

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/wikidata"
)

// StatementSource returns the raw statements of an entity for one property
type StatementSource interface {
	GetClaims(ctx context.Context, id model.Identifier, property string) ([]wikidata.Statement, error)
}

// ClaimExtractor turns raw statements into claims. Claims are read fresh on
// every call and never cached.
type ClaimExtractor struct {
	source StatementSource
	logger *log.Logger
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(source StatementSource, logger *log.Logger) *ClaimExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &ClaimExtractor{
		source: source,
		logger: logger.With("component", "claims"),
	}
}

// GetClaims returns the claims of id for property in upstream order. An entity
// without such claims yields an empty, non-nil slice.
func (e *ClaimExtractor) GetClaims(ctx context.Context, id model.Identifier, property string) ([]model.Claim, error) {
	statements, err := e.source.GetClaims(ctx, id, property)
	if err != nil {
		e.logger.Debug("claim lookup failed", "id", id, "property", property, "err", err)
		return nil, err
	}

	claims := make([]model.Claim, 0, len(statements))
	for _, st := range statements {
		claims = append(claims, ToClaim(property, st))
	}

	e.logger.Debug("claims", "id", id, "property", property, "count", len(claims))
	return claims, nil
}

// ToClaim converts one raw statement. Qualifier values are parsed but not interpreted.
func ToClaim(property string, st wikidata.Statement) model.Claim {
	claim := model.Claim{
		Property: property,
		Value:    ParseSnak(st.MainSnak),
		Rank:     st.Rank,
	}

	if len(st.Qualifiers) > 0 {
		claim.Qualifiers = make(map[string][]model.Value, len(st.Qualifiers))
		for code, snaks := range st.Qualifiers {
			values := make([]model.Value, 0, len(snaks))
			for _, s := range snaks {
				values = append(values, ParseSnak(s))
			}
			claim.Qualifiers[code] = values
		}
	}

	return claim
}
