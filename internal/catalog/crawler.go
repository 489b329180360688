package catalog

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/artgraph/internal/extract"
	"github.com/ppiankov/artgraph/internal/model"
)

// PageFetcher returns the HTML body of a page
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Order is the traversal order of a crawl
type Order int

const (
	DepthFirst Order = iota
	BreadthFirst
)

func (o Order) String() string {
	if o == BreadthFirst {
		return "bfs"
	}
	return "dfs"
}

// ParseOrder parses "dfs" or "bfs"
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dfs", "depth-first":
		return DepthFirst, nil
	case "bfs", "breadth-first":
		return BreadthFirst, nil
	default:
		return DepthFirst, fmt.Errorf("unknown crawl order %q (want dfs or bfs)", s)
	}
}

// Options configures a Crawler
type Options struct {
	TableMarker string     // CSS class of the data table
	IDColumn    int        // column holding the entity link
	Order       Order      // traversal order
	Failures    FailureLog // optional; failed fetches are always skipped
	OnPage      func(url string, found int)
}

// Crawler walks catalogue pages and collects the identifiers listed in their tables
type Crawler struct {
	fetcher PageFetcher
	opts    Options
	logger  *log.Logger
}

// NewCrawler creates a new crawler
func NewCrawler(fetcher PageFetcher, opts Options, logger *log.Logger) *Crawler {
	if opts.TableMarker == "" {
		opts.TableMarker = "wikitable"
	}
	if opts.IDColumn <= 0 {
		opts.IDColumn = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Crawler{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.With("component", "crawler"),
	}
}

// Crawl collects identifiers from rootURL and every page reachable through
// table links that start with prefix. URLs already in visited are skipped and
// every URL taken is added to it. Pages that fail to fetch are logged and their
// branch is skipped; only a cancelled context ends the crawl early, returning
// the identifiers found so far together with the context error.
func (c *Crawler) Crawl(ctx context.Context, rootURL, prefix string, visited *Visited) (*IDSet, error) {
	if visited == nil {
		visited = NewVisited()
	}

	ids := NewIDSet()
	work := []string{rootURL}

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return ids, model.NewLookupError("crawl", rootURL, model.ReasonCancelled, err)
		}

		var url string
		if c.opts.Order == BreadthFirst {
			url, work = work[0], work[1:]
		} else {
			url, work = work[len(work)-1], work[:len(work)-1]
		}

		if !visited.Take(url) {
			continue
		}

		found, links, err := c.visit(ctx, url, prefix)
		if err != nil {
			if model.ReasonOf(err) == model.ReasonCancelled {
				return ids, err
			}
			c.fail(url, err)
			continue
		}

		ids.Add(found...)
		if c.opts.OnPage != nil {
			c.opts.OnPage(url, len(found))
		}
		c.logger.Debug("page", "url", url, "ids", len(found), "links", len(links))

		if c.opts.Order == BreadthFirst {
			work = append(work, links...)
		} else {
			// reversed so the first link on the page is explored first
			for i := len(links) - 1; i >= 0; i-- {
				work = append(work, links[i])
			}
		}
	}

	return ids, nil
}

// CrawlAll crawls each root with its own visited set and returns the union
func (c *Crawler) CrawlAll(ctx context.Context, roots []string, prefix string) (*IDSet, error) {
	all := NewIDSet()
	for _, root := range roots {
		ids, err := c.Crawl(ctx, root, prefix, NewVisited())
		all.Merge(ids)
		if err != nil {
			return all, err
		}
		c.logger.Info("catalog crawled", "root", root, "ids", ids.Len(), "total", all.Len())
	}
	return all, nil
}

// ListCatalogs returns the prefix-matching table links of a collection page,
// in page order, without following them
func (c *Crawler) ListCatalogs(ctx context.Context, collectionURL, prefix string) ([]string, error) {
	body, err := c.fetcher.FetchPage(ctx, collectionURL)
	if err != nil {
		return nil, err
	}

	table, found, err := extract.ParseTable(bytes.NewReader(body), c.opts.TableMarker)
	if err != nil {
		return nil, model.NewLookupError("list catalogs", collectionURL, model.ReasonMalformed, err)
	}
	if !found {
		c.logger.Warn("no table found on the page", "url", collectionURL)
		return []string{}, nil
	}

	links, err := table.Links(collectionURL)
	if err != nil {
		return nil, err
	}
	return filterPrefix(links, prefix), nil
}

func (c *Crawler) visit(ctx context.Context, url, prefix string) ([]model.Identifier, []string, error) {
	body, err := c.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, nil, err
	}

	table, found, err := extract.ParseTable(bytes.NewReader(body), c.opts.TableMarker)
	if err != nil {
		return nil, nil, model.NewLookupError("parse page", url, model.ReasonMalformed, err)
	}
	if !found {
		return nil, nil, nil
	}

	links, err := table.Links(url)
	if err != nil {
		return nil, nil, model.NewLookupError("parse page", url, model.ReasonMalformed, err)
	}

	return table.Identifiers(c.opts.IDColumn), filterPrefix(links, prefix), nil
}

func (c *Crawler) fail(url string, err error) {
	c.logger.Warn("failed to fetch", "url", url, "reason", model.ReasonOf(err), "err", err)
	if c.opts.Failures == nil {
		return
	}
	if logErr := c.opts.Failures.Record(url, err); logErr != nil {
		c.logger.Error("failure log write failed", "err", logErr)
	}
}

func filterPrefix(links []string, prefix string) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}
