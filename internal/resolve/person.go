package resolve

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/cache"
	"github.com/ppiankov/artgraph/internal/model"
)

// PersonResolver adds the place of birth to the resolved entity
type PersonResolver struct {
	entities *Resolver
	places   *PlaceResolver
	claims   ClaimSource
	cache    cache.Cache[model.PersonInfo]
	logger   *log.Logger
}

// NewPersonResolver creates a person resolver
func NewPersonResolver(entities *Resolver, places *PlaceResolver, claims ClaimSource, c cache.Cache[model.PersonInfo], logger *log.Logger) *PersonResolver {
	if c == nil {
		c = cache.NewMemoryCache[model.PersonInfo]()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PersonResolver{
		entities: entities,
		places:   places,
		claims:   claims,
		cache:    c,
		logger:   logger.With("component", "people"),
	}
}

// Resolve returns the person's name, links and place of birth. A person
// without a recorded birthplace is still returned.
func (p *PersonResolver) Resolve(ctx context.Context, id model.Identifier) model.PersonInfo {
	key := cache.CacheKey("person", id.String())
	if person, ok := p.cache.Get(key); ok {
		return person
	}

	person := model.PersonInfo{EntityInfo: p.entities.Resolve(ctx, id)}

	claims, err := p.claims.GetClaims(ctx, id, propPlaceOfBirth)
	switch {
	case err != nil:
		if model.ReasonOf(err) == model.ReasonCancelled {
			return person
		}
		p.logger.Debug("birthplace lookup failed", "id", id, "err", err)
	default:
		for _, c := range claims {
			if c.Value.IsEntity() {
				place := p.places.Resolve(ctx, c.Value.EntityID)
				person.PlaceOfBirth = &place
				break
			}
		}
	}

	p.cache.Set(key, person)
	return person
}
