package assemble

import (
	"context"
	"strings"

	"github.com/ppiankov/artgraph/internal/extract"
	"github.com/ppiankov/artgraph/internal/model"
)

func (a *Assembler) image(v model.Value) (any, bool) {
	switch v.Kind {
	case model.ValueNone:
		return nil, false
	case model.ValueString:
		return model.ImageRef{Image: a.MediaURL(v.Text)}, true
	default:
		return v.Literal(), true
	}
}

// MediaURL turns a media file name into its public link
func (a *Assembler) MediaURL(name string) string {
	return a.opts.CommonsFileURL + strings.ReplaceAll(name, " ", "_")
}

func date(v model.Value) (any, bool) {
	switch v.Kind {
	case model.ValueNone:
		return nil, false
	case model.ValueTime:
		return extract.NormalizeTime(v.Time), true
	default:
		return v.Literal(), true
	}
}

func (a *Assembler) place(ctx context.Context, claim model.Claim) model.PlaceRef {
	ref := model.PlaceRef{
		StartTime: qualifierTime(claim, qualStartTime),
		EndTime:   qualifierTime(claim, qualEndTime),
	}

	if !claim.Value.IsEntity() {
		return ref
	}

	id := claim.Value.EntityID
	place := a.deps.Places.Resolve(ctx, id)
	ref.Name = place.Name
	ref.WikiURL = a.wikiURL(id)
	ref.WikipediaURL = place.WikipediaURL
	ref.Coordinates = place.Coordinates
	return ref
}

func (a *Assembler) event(ctx context.Context, claim model.Claim) model.EventRef {
	var ev model.EventRef

	if claim.Value.IsEntity() {
		id := claim.Value.EntityID
		info := a.deps.Entities.Resolve(ctx, id)
		ev.ID = model.StringPtr(id.String())
		ev.Name = info.Name
		ev.WikiURL = a.wikiURL(id)
		ev.WikipediaURL = info.WikipediaURL
	} else {
		ev.Name = claim.Value.Literal()
	}

	ev.PointInTime = qualifierTime(claim, qualPointInTime)

	if cause, ok := claim.Qualifier(qualCauseOfDestruction); ok && cause.Kind != model.ValueNone {
		if cause.IsEntity() {
			info := a.deps.Entities.Resolve(ctx, cause.EntityID)
			ev.CauseOfDestruction = info.Name
			ev.CauseOfDestructionWikipediaURL = info.WikipediaURL
		} else {
			ev.CauseOfDestruction = cause.Literal()
		}
	}

	if v, ok := claim.Qualifier(qualBeforehandOwnedBy); ok && v.IsEntity() {
		ref := a.entityRef(ctx, v.EntityID)
		ev.BeforehandOwnedBy = &ref
	}
	if v, ok := claim.Qualifier(qualAfterwardOwnedBy); ok && v.IsEntity() {
		ref := a.entityRef(ctx, v.EntityID)
		ev.AfterwardOwnedBy = &ref
	}

	return ev
}

func (a *Assembler) person(ctx context.Context, id model.Identifier) model.PersonRef {
	person := a.deps.People.Resolve(ctx, id)
	return model.PersonRef{
		Name:         person.Name,
		WikiURL:      a.wikiURL(id),
		WikipediaURL: person.WikipediaURL,
		PlaceOfBirth: person.PlaceOfBirth,
	}
}

func (a *Assembler) entity(ctx context.Context, v model.Value) model.EntityRef {
	if !v.IsEntity() {
		return model.EntityRef{}
	}
	return a.entityRef(ctx, v.EntityID)
}

func (a *Assembler) entityRef(ctx context.Context, id model.Identifier) model.EntityRef {
	info := a.deps.Entities.Resolve(ctx, id)
	return model.EntityRef{
		Name:         info.Name,
		WikiURL:      a.wikiURL(id),
		WikipediaURL: info.WikipediaURL,
	}
}

func (a *Assembler) wikiURL(id model.Identifier) *string {
	return model.StringPtr(id.WikiURL(a.opts.WikiBaseURL))
}

func qualifierTime(claim model.Claim, code string) *string {
	v, ok := claim.Qualifier(code)
	if !ok || v.Kind != model.ValueTime {
		return nil
	}
	return model.StringPtr(extract.NormalizeTime(v.Time))
}
