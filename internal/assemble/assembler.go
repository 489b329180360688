package assemble

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/resolve"
	"github.com/ppiankov/artgraph/internal/wikidata"
)

// ClaimSource returns the claims of an entity for one property
type ClaimSource interface {
	GetClaims(ctx context.Context, id model.Identifier, property string) ([]model.Claim, error)
}

// Querier runs structured queries against the query service
type Querier interface {
	Query(ctx context.Context, query string) ([]map[string]wikidata.Binding, error)
}

// Deps are the collaborators of an Assembler
type Deps struct {
	Claims   ClaimSource
	Entities *resolve.Resolver
	Places   *resolve.PlaceResolver
	People   *resolve.PersonResolver
	Query    Querier // only needed with CreatorQueryFallback
}

// Options configures an Assembler
type Options struct {
	WikiBaseURL          string
	CommonsFileURL       string
	CreatorQueryFallback bool
	Fields               []FieldSpec // defaults to Fields
}

// Assembler builds one denormalized record per artwork
type Assembler struct {
	deps   Deps
	opts   Options
	logger *log.Logger
}

// New creates a new assembler
func New(deps Deps, opts Options, logger *log.Logger) *Assembler {
	if opts.WikiBaseURL == "" {
		opts.WikiBaseURL = model.DefaultWikiBaseURL
	}
	if opts.CommonsFileURL == "" {
		opts.CommonsFileURL = "https://commons.wikimedia.org/wiki/Special:FilePath/"
	}
	if opts.Fields == nil {
		opts.Fields = Fields
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Assembler{
		deps:   deps,
		opts:   opts,
		logger: logger.With("component", "assembler"),
	}
}

// Assemble builds the record for id. Lookup failures degrade the affected
// field instead of failing the record; only an empty identifier or a
// cancelled context return an error.
func (a *Assembler) Assemble(ctx context.Context, id model.Identifier) (*model.Record, error) {
	if id == "" {
		return nil, model.NewLookupError("assemble", "", model.ReasonMalformed, errors.New("empty identifier"))
	}
	if err := ctx.Err(); err != nil {
		return nil, cancelled(id, err)
	}

	info := a.deps.Entities.Resolve(ctx, id)
	record := &model.Record{
		Article: model.Article{
			ID:           id,
			Title:        info.Name,
			WikiURL:      id.WikiURL(a.opts.WikiBaseURL),
			WikipediaURL: info.WikipediaURL,
		},
	}

	for _, field := range a.opts.Fields {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(id, err)
		}

		claims, err := a.deps.Claims.GetClaims(ctx, id, field.Property)
		if err != nil {
			if model.ReasonOf(err) == model.ReasonCancelled {
				return nil, cancelled(id, err)
			}
			a.logger.Warn("field lookup failed", "id", id, "field", field.Name, "reason", model.ReasonOf(err), "err", err)
			record.Set(field.Name, nil)
			continue
		}

		var items []any
		if field.Shape == ShapePerson && len(claims) == 0 && a.opts.CreatorQueryFallback {
			items = a.queryCreators(ctx, id, field.Property)
		} else {
			items = a.shapeAll(ctx, field, claims)
		}

		a.logger.Debug("field", "id", id, "field", field.Name, "claims", len(claims), "items", len(items))
		record.Set(field.Name, model.Collapse(items))
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelled(id, err)
	}
	return record, nil
}

func (a *Assembler) shapeAll(ctx context.Context, field FieldSpec, claims []model.Claim) []any {
	var items []any
	for _, claim := range claims {
		if item, ok := a.shape(ctx, field.Shape, claim); ok {
			items = append(items, item)
		}
	}
	return items
}

func (a *Assembler) shape(ctx context.Context, shape Shape, claim model.Claim) (any, bool) {
	switch shape {
	case ShapeImage:
		return a.image(claim.Value)
	case ShapeDate:
		return date(claim.Value)
	case ShapePlace:
		return a.place(ctx, claim), true
	case ShapeEvent:
		return a.event(ctx, claim), true
	case ShapePerson:
		if !claim.Value.IsEntity() {
			return nil, false
		}
		return a.person(ctx, claim.Value.EntityID), true
	case ShapeEntity:
		return a.entity(ctx, claim.Value), true
	}
	return nil, false
}

// queryCreators asks the query service for creators when the item has no creator claims
func (a *Assembler) queryCreators(ctx context.Context, id model.Identifier, property string) []any {
	if a.deps.Query == nil {
		return nil
	}

	query := fmt.Sprintf("SELECT ?creator WHERE { wd:%s wdt:%s ?creator . }", id, property)
	rows, err := a.deps.Query.Query(ctx, query)
	if err != nil {
		a.logger.Warn("creator query failed", "id", id, "err", err)
		return nil
	}

	var items []any
	for _, row := range rows {
		binding, ok := row["creator"]
		if !ok || binding.Type != "uri" {
			continue
		}
		creator, err := model.ParseIdentifier(binding.Value)
		if err != nil {
			continue
		}
		items = append(items, a.person(ctx, creator))
	}
	return items
}

func cancelled(id model.Identifier, err error) error {
	var lookupErr *model.LookupError
	if errors.As(err, &lookupErr) {
		return err
	}
	return model.NewLookupError("assemble", id.String(), model.ReasonCancelled, err)
}
