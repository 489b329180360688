package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/artgraph/internal/model"
)

// Pacer delays outbound requests per host
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// RobotsGate rejects URLs the host does not allow crawlers to fetch
type RobotsGate interface {
	Check(ctx context.Context, rawURL string) error
}

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Transport http.RoundTripper // nil uses http.DefaultTransport
	Pacer     Pacer             // optional
	Robots    RobotsGate        // optional
	Logger    *log.Logger
}

// Fetcher fetches catalogue pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pacer      Pacer
	robots     RobotsGate
	logger     *log.Logger
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(opts FetcherOptions) *Fetcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10_000_000
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		pacer:     opts.Pacer,
		robots:    opts.Robots,
		logger:    logger.With("component", "fetcher"),
	}
}

// FetchMeta records response metadata
type FetchMeta struct {
	StatusCode  int
	ContentType string
}

// FetchResult contains the fetched HTML and metadata. FinalURL differs from
// the requested URL after a redirect.
type FetchResult struct {
	Body     []byte
	Meta     FetchMeta
	FinalURL string
}

// Fetch retrieves the page at rawURL. Every failure is a *model.LookupError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	const op = "fetch page"

	if f.robots != nil {
		if err := f.robots.Check(ctx, rawURL); err != nil {
			return nil, err
		}
	}
	if f.pacer != nil {
		if err := f.pacer.Wait(ctx, rawURL); err != nil {
			return nil, model.NewLookupError(op, rawURL, model.ReasonCancelled, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewLookupError(op, rawURL, model.ReasonMalformed, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, model.NewLookupError(op, rawURL, model.ReasonCancelled, ctx.Err())
		}
		return nil, model.NewLookupError(op, rawURL, model.ReasonTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := FetchMeta{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, model.NewLookupError(op, rawURL, model.ReasonNotFound, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.NewLookupError(op, rawURL, model.ReasonStatus, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, model.NewLookupError(op, rawURL, model.ReasonTransport, fmt.Errorf("read body: %w", err))
	}

	return &FetchResult{
		Body:     body,
		Meta:     meta,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// FetchPage returns only the page body
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fetched page", "url", rawURL, "status", res.Meta.StatusCode, "content_type", res.Meta.ContentType, "bytes", len(res.Body))
	if res.FinalURL != rawURL {
		f.logger.Info("page redirected", "url", rawURL, "final", res.FinalURL)
	}
	return res.Body, nil
}

// Slug returns the last path segment of a URL, used to name output files
// after the page they came from (".../Collection_catalogs" -> "Collection_catalogs").
func Slug(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// drop the namespace prefix of wiki pages ("Wikidata:Foo" -> "Foo")
	if idx := strings.LastIndex(last, ":"); idx >= 0 && idx < len(last)-1 {
		last = last[idx+1:]
	}

	return last
}
