package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/cache"
	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/wikidata"
)

// EntitySource fetches labels and sitelinks of one entity
type EntitySource interface {
	GetEntity(ctx context.Context, id model.Identifier, props, languages []string) (*wikidata.Entity, error)
}

// Entry is a memoized lookup outcome. Err is set for negative results.
type Entry struct {
	Info model.EntityInfo
	Err  error
}

// Options configures a Resolver
type Options struct {
	Language         string // label language and <lang>wiki sitelink
	FallbackLanguage string // label language used when Language has none
	WikipediaURL     string // article prefix, %s is the language
}

// Resolver turns identifiers into a label and encyclopedia link. Every
// outcome, including failures, is cached for the lifetime of the cache.
type Resolver struct {
	source EntitySource
	cache  cache.Cache[Entry]
	opts   Options
	logger *log.Logger
}

// NewResolver creates a resolver over an explicit cache
func NewResolver(source EntitySource, c cache.Cache[Entry], opts Options, logger *log.Logger) *Resolver {
	if c == nil {
		c = cache.NewMemoryCache[Entry]()
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.WikipediaURL == "" {
		opts.WikipediaURL = "https://%s.wikipedia.org/wiki/"
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Resolver{
		source: source,
		cache:  c,
		opts:   opts,
		logger: logger.With("component", "resolver"),
	}
}

// Cache exposes the resolver cache
func (r *Resolver) Cache() cache.Cache[Entry] {
	return r.cache
}

// Lookup resolves id, going to the network only on a cache miss
func (r *Resolver) Lookup(ctx context.Context, id model.Identifier) (model.EntityInfo, error) {
	if id == "" {
		return model.EntityInfo{}, model.NewLookupError("resolve", "", model.ReasonMalformed, errors.New("empty identifier"))
	}

	key := cache.CacheKey("entity", id.String())
	if entry, ok := r.cache.Get(key); ok {
		r.logger.Debug("cache hit", "id", id)
		return entry.Info, entry.Err
	}

	info, err := r.fetch(ctx, id)
	if err != nil {
		if model.ReasonOf(err) == model.ReasonCancelled {
			return model.EntityInfo{}, err
		}
		r.logger.Warn("entity lookup failed", "id", id, "reason", model.ReasonOf(err), "err", err)
	}

	r.cache.Set(key, Entry{Info: info, Err: err})
	return info, err
}

// Resolve is Lookup with failures reported as an empty EntityInfo
func (r *Resolver) Resolve(ctx context.Context, id model.Identifier) model.EntityInfo {
	info, _ := r.Lookup(ctx, id)
	return info
}

func (r *Resolver) fetch(ctx context.Context, id model.Identifier) (model.EntityInfo, error) {
	languages := []string{r.opts.Language}
	if r.opts.FallbackLanguage != "" && r.opts.FallbackLanguage != r.opts.Language {
		languages = append(languages, r.opts.FallbackLanguage)
	}

	entity, err := r.source.GetEntity(ctx, id, []string{"labels", "sitelinks"}, languages)
	if err != nil {
		return model.EntityInfo{}, err
	}

	var info model.EntityInfo
	if label, ok := entity.Label(languages...); ok {
		info.Name = model.StringPtr(label)
	}
	if title, ok := entity.SitelinkTitle(r.opts.Language + "wiki"); ok {
		info.WikipediaURL = model.StringPtr(r.ArticleURL(title))
	}

	return info, nil
}

// ArticleURL builds the encyclopedia URL of an article title
func (r *Resolver) ArticleURL(title string) string {
	prefix := r.opts.WikipediaURL
	if strings.Contains(prefix, "%s") {
		prefix = fmt.Sprintf(prefix, r.opts.Language)
	}
	return prefix + strings.ReplaceAll(title, " ", "_")
}
