package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/temoto/robotstxt"
)

// Pacer delays outbound requests per host
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// RobotsOptions configures a RobotsChecker
type RobotsOptions struct {
	UserAgent string
	Timeout   time.Duration
	Transport http.RoundTripper // shared with the page fetcher; nil uses http.DefaultTransport
	Pacer     Pacer             // optional
}

// RobotsChecker checks catalogue page URLs against the host's robots.txt
type RobotsChecker struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	pacer      Pacer
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a new robots.txt checker
func NewRobotsChecker(opts RobotsOptions) *RobotsChecker {
	return &RobotsChecker{
		cache: make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		pacer:     opts.Pacer,
		userAgent: opts.UserAgent,
		agent:     NormalizeUserAgent(opts.UserAgent),
	}
}

// CanFetch reports whether the URL may be fetched. A robots.txt that cannot be
// retrieved or parsed allows everything.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

	data, err := r.getRobotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.agent), nil
}

// Check returns a disallowed LookupError when robots.txt forbids the URL
func (r *RobotsChecker) Check(ctx context.Context, rawURL string) error {
	allowed, err := r.CanFetch(ctx, rawURL)
	if err != nil {
		return model.NewLookupError("robots", rawURL, model.ReasonMalformed, err)
	}
	if !allowed {
		return model.NewLookupError("robots", rawURL, model.ReasonDisallowed, nil)
	}
	return nil
}

// getRobotsData fetches and caches robots.txt data per host. A robots.txt that
// cannot be fetched or parsed is cached as allow-all; only a cancelled context
// leaves the host uncached.
func (r *RobotsChecker) getRobotsData(ctx context.Context, host string, robotsURL string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()

	if exists {
		return data, nil
	}

	data, err := r.fetchRobots(ctx, robotsURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		data = allowAll()
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()

	return data, nil
}

func (r *RobotsChecker) fetchRobots(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	if r.pacer != nil {
		if err := r.pacer.Wait(ctx, robotsURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

func allowAll() *robotstxt.RobotsData {
	data, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	return data
}

// NormalizeUserAgent reduces a User-Agent header to the product token robots.txt groups match on
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
