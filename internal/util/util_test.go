package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/artgraph/internal/model"
)

func TestRobotsChecker_Disallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /w/\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(RobotsOptions{UserAgent: "artgraph/0.1 (+test)", Timeout: 5 * time.Second})
	ctx := context.Background()

	allowed, err := checker.CanFetch(ctx, server.URL+"/wiki/Catalog")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /wiki/ page to be allowed")
	}

	err = checker.Check(ctx, server.URL+"/w/index.php")
	if err == nil {
		t.Fatal("expected /w/ page to be disallowed")
	}
	if model.ReasonOf(err) != model.ReasonDisallowed {
		t.Errorf("expected disallowed reason, got %s", model.ReasonOf(err))
	}
}

func TestRobotsChecker_MissingRobotsAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(RobotsOptions{UserAgent: "artgraph", Timeout: 5 * time.Second})
	if err := checker.Check(context.Background(), server.URL+"/anything"); err != nil {
		t.Errorf("expected allow when robots.txt is missing, got %v", err)
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			hits++
			_, _ = fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		}
	}))
	defer server.Close()

	checker := NewRobotsChecker(RobotsOptions{UserAgent: "artgraph", Timeout: 5 * time.Second})
	for i := 0; i < 3; i++ {
		_ = checker.Check(context.Background(), server.URL+"/page")
	}
	if hits != 1 {
		t.Errorf("expected robots.txt fetched once, got %d", hits)
	}
}

func TestRobotsChecker_UnreachableRobotsCachedAsAllowAll(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			hits.Add(1)
			time.Sleep(300 * time.Millisecond)
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
		}
	}))
	defer server.Close()

	checker := NewRobotsChecker(RobotsOptions{UserAgent: "artgraph", Timeout: 50 * time.Millisecond})
	for i := 0; i < 3; i++ {
		if err := checker.Check(context.Background(), server.URL+"/page"); err != nil {
			t.Fatalf("expected allow when robots.txt times out, got %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected one robots.txt attempt, got %d", got)
	}
}

func TestRobotsChecker_CancelledNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			hits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		}
	}))
	defer server.Close()

	checker := NewRobotsChecker(RobotsOptions{UserAgent: "artgraph", Timeout: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = checker.Check(ctx, server.URL+"/private/page")

	if err := checker.Check(context.Background(), server.URL+"/private/page"); model.ReasonOf(err) != model.ReasonDisallowed {
		t.Errorf("expected disallowed after a cancelled first check, got %v", err)
	}
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(req)
}

type countingPacer struct {
	urls []string
}

func (p *countingPacer) Wait(ctx context.Context, rawURL string) error {
	p.urls = append(p.urls, rawURL)
	return ctx.Err()
}

func TestRobotsChecker_SharedTransportAndPacer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	}))
	defer server.Close()

	transport := &countingTransport{}
	pacer := &countingPacer{}
	checker := NewRobotsChecker(RobotsOptions{
		UserAgent: "artgraph",
		Timeout:   5 * time.Second,
		Transport: transport,
		Pacer:     pacer,
	})

	for i := 0; i < 2; i++ {
		if err := checker.Check(context.Background(), server.URL+"/page"); err != nil {
			t.Fatalf("Check failed: %v", err)
		}
	}
	if got := transport.calls.Load(); got != 1 {
		t.Errorf("expected robots.txt sent through the shared transport once, got %d", got)
	}
	if len(pacer.urls) != 1 || pacer.urls[0] != server.URL+"/robots.txt" {
		t.Errorf("expected one paced robots.txt request, got %v", pacer.urls)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"artgraph/0.1 (+https://example.org)": "artgraph",
		"curl/8.0":                            "curl",
		"":                                    "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "wikidata.org, .internal")

	req, _ := http.NewRequest(http.MethodGet, "https://www.wikidata.org/w/api.php", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected direct connection for no_proxy host, got %v", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://commons.wikimedia.org/", nil)
	got, err = proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("expected proxy.local:3128, got %v", got)
	}
}

func TestNewProxyFunc_HTTPSPreferred(t *testing.T) {
	proxy := NewProxyFunc("http://plain:1", "http://secure:2", "")
	req, _ := http.NewRequest(http.MethodGet, "https://query.wikidata.org/sparql", nil)
	got, _ := proxy(req)
	if got == nil || got.Host != "secure:2" {
		t.Errorf("expected https proxy, got %v", got)
	}
}
