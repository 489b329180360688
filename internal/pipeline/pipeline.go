package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/artgraph/internal/assemble"
	"github.com/ppiankov/artgraph/internal/cache"
	"github.com/ppiankov/artgraph/internal/catalog"
	"github.com/ppiankov/artgraph/internal/extract"
	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/resolve"
	"github.com/ppiankov/artgraph/internal/util"
	"github.com/ppiankov/artgraph/internal/wikidata"
	"github.com/ppiankov/artgraph/internal/worker"
)

// Pipeline wires the crawler and the record assembler for one run. Resolver
// caches live as long as the pipeline.
type Pipeline struct {
	config    *model.Config
	logger    *log.Logger
	fetcher   *Fetcher
	client    *wikidata.Client
	entities  *resolve.Resolver
	assembler *assemble.Assembler
	crawler   *catalog.Crawler
	failures  catalog.FailureLog
	onPage    func(url string, found int)
}

// New creates a pipeline from configuration
func New(cfg *model.Config, logger *log.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	order, err := catalog.ParseOrder(cfg.Crawl.Order)
	if err != nil {
		return nil, err
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	proxy := util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	fetchOpts := FetcherOptions{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		MaxBytes:  cfg.HTTP.MaxBodyBytes,
		Transport: transport,
		Pacer:     limiter,
		Logger:    logger,
	}
	if cfg.Crawl.RespectRobots {
		fetchOpts.Robots = util.NewRobotsChecker(util.RobotsOptions{
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			Pacer:     limiter,
		})
	}

	client := wikidata.NewClient(wikidata.Options{
		APIURL:    cfg.Wikidata.APIURL,
		SPARQLURL: cfg.Wikidata.SPARQLURL,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		Proxy:     proxy,
		Pacer:     limiter,
	})

	claims := extract.NewClaimExtractor(client, logger)
	entities := resolve.NewResolver(client, cache.NewMemoryCache[resolve.Entry](), resolve.Options{
		Language:         cfg.Wikidata.Language,
		FallbackLanguage: cfg.Wikidata.FallbackLanguage,
		WikipediaURL:     cfg.Wikidata.WikipediaURL,
	}, logger)
	places := resolve.NewPlaceResolver(entities, claims, cache.NewMemoryCache[model.PlaceInfo](), logger)
	people := resolve.NewPersonResolver(entities, places, claims, cache.NewMemoryCache[model.PersonInfo](), logger)

	assembler := assemble.New(assemble.Deps{
		Claims:   claims,
		Entities: entities,
		Places:   places,
		People:   people,
		Query:    client,
	}, assemble.Options{
		WikiBaseURL:          cfg.Wikidata.WikiBaseURL,
		CommonsFileURL:       cfg.Wikidata.CommonsFileURL,
		CreatorQueryFallback: cfg.Assemble.CreatorQueryFallback,
	}, logger)

	var failures catalog.FailureLog
	if cfg.Crawl.FailureLog != "" {
		failures = catalog.NewFileFailureLog(cfg.Crawl.FailureLog)
	} else {
		failures = &catalog.MemoryFailureLog{}
	}

	p := &Pipeline{
		config:    cfg,
		logger:    logger.With("component", "pipeline"),
		fetcher:   NewFetcher(fetchOpts),
		client:    client,
		entities:  entities,
		assembler: assembler,
		failures:  failures,
	}

	p.crawler = catalog.NewCrawler(p.fetcher, catalog.Options{
		TableMarker: cfg.Crawl.TableMarker,
		IDColumn:    cfg.Crawl.IDColumn,
		Order:       order,
		Failures:    failures,
		OnPage: func(url string, found int) {
			if p.onPage != nil {
				p.onPage(url, found)
			}
		},
	}, logger)

	return p, nil
}

// OnCatalogPage registers a callback invoked after every crawled page
func (p *Pipeline) OnCatalogPage(fn func(url string, found int)) {
	p.onPage = fn
}

// Failures returns the log of pages that could not be fetched
func (p *Pipeline) Failures() catalog.FailureLog {
	return p.failures
}

// Entities exposes the entity resolver and its cache
func (p *Pipeline) Entities() *resolve.Resolver {
	return p.entities
}

// ListCatalogs returns the catalogue pages linked from the collection page.
// An empty collectionURL uses the configured one.
func (p *Pipeline) ListCatalogs(ctx context.Context, collectionURL string) ([]string, error) {
	if collectionURL == "" {
		collectionURL = p.config.Crawl.CollectionURL
	}
	catalogs, err := p.crawler.ListCatalogs(ctx, collectionURL, p.config.Crawl.CatalogPrefix)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	p.logger.Info("listed catalogs", "collection", collectionURL, "count", len(catalogs))
	return catalogs, nil
}

// CrawlCatalogs crawls every root catalogue and returns the union of identifiers
func (p *Pipeline) CrawlCatalogs(ctx context.Context, roots []string) (*catalog.IDSet, error) {
	ids, err := p.crawler.CrawlAll(ctx, roots, p.config.Crawl.CatalogPrefix)
	if err != nil {
		return ids, fmt.Errorf("crawl catalogs: %w", err)
	}
	p.logger.Info("crawl finished", "roots", len(roots), "identifiers", ids.Len())
	return ids, nil
}

// AssembleRecord builds the record of one artwork
func (p *Pipeline) AssembleRecord(ctx context.Context, id model.Identifier) (*model.Record, error) {
	return p.assembler.Assemble(ctx, id)
}

// AssembleBatch builds records for every identifier with the configured
// number of workers. Results are in input order; failures stay in place.
func (p *Pipeline) AssembleBatch(ctx context.Context, ids []model.Identifier, progress worker.ProgressFunc) []*worker.AssembleResult {
	processor := worker.NewBatchProcessor(p.assembler, p.config.Concurrency.Workers)
	if progress != nil {
		processor.OnProgress(progress)
	}
	return processor.ProcessIdentifiers(ctx, ids)
}

// AssembleFile reads an identifier list file and assembles every entry
func (p *Pipeline) AssembleFile(ctx context.Context, path string, progress worker.ProgressFunc) ([]*worker.AssembleResult, error) {
	processor := worker.NewBatchProcessor(p.assembler, p.config.Concurrency.Workers)
	if progress != nil {
		processor.OnProgress(progress)
	}
	return processor.ProcessFile(ctx, path)
}

// Records returns the successful records of a batch, in order
func Records(results []*worker.AssembleResult) []*model.Record {
	records := make([]*model.Record, 0, len(results))
	for _, r := range results {
		if r != nil && r.Error == nil && r.Record != nil {
			records = append(records, r.Record)
		}
	}
	return records
}
