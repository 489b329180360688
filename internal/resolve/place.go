package resolve

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/cache"
	"github.com/ppiankov/artgraph/internal/model"
)

const (
	propCoordinates  = "P625"
	propPlaceOfBirth = "P19"
)

// ClaimSource returns the claims of an entity for one property
type ClaimSource interface {
	GetClaims(ctx context.Context, id model.Identifier, property string) ([]model.Claim, error)
}

// PlaceResolver adds a coordinate location to the resolved entity
type PlaceResolver struct {
	entities *Resolver
	claims   ClaimSource
	cache    cache.Cache[model.PlaceInfo]
	logger   *log.Logger
}

// NewPlaceResolver creates a place resolver sharing the entity resolver's cache policy
func NewPlaceResolver(entities *Resolver, claims ClaimSource, c cache.Cache[model.PlaceInfo], logger *log.Logger) *PlaceResolver {
	if c == nil {
		c = cache.NewMemoryCache[model.PlaceInfo]()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PlaceResolver{
		entities: entities,
		claims:   claims,
		cache:    c,
		logger:   logger.With("component", "places"),
	}
}

// Resolve returns the place's name, links and first coordinate. Failures
// leave the corresponding parts empty.
func (p *PlaceResolver) Resolve(ctx context.Context, id model.Identifier) model.PlaceInfo {
	key := cache.CacheKey("place", id.String())
	if place, ok := p.cache.Get(key); ok {
		return place
	}

	place := model.PlaceInfo{EntityInfo: p.entities.Resolve(ctx, id)}

	claims, err := p.claims.GetClaims(ctx, id, propCoordinates)
	switch {
	case err != nil:
		if model.ReasonOf(err) == model.ReasonCancelled {
			return place
		}
		p.logger.Debug("coordinate lookup failed", "id", id, "err", err)
	default:
		for _, c := range claims {
			if c.Value.Kind == model.ValueCoordinate {
				coords := model.Coordinates{c.Value.Latitude, c.Value.Longitude}
				place.Coordinates = &coords
				break
			}
		}
	}

	p.cache.Set(key, place)
	return place
}
